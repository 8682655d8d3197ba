package mem

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

type Stats struct {
	Total  uint32
	Used   uint32
	Free   uint32
	Blocks uint32
	Pools  uint32
}

func (m *Memory) Stats() Stats {
	heapStats := m.heap.Stats()
	return Stats{
		Total:  heapStats.Total,
		Used:   heapStats.Used,
		Free:   heapStats.Free,
		Blocks: heapStats.BlockCount,
		Pools:  uint32(m.pools.Count()),
	}
}

func (m *Memory) FreeMemory() uint32 {
	return m.heap.free
}

// ListPools 打印所有内存池信息
func (m *Memory) ListPools(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "NAME", "TYPE", "SIZE", "USED", "PEAK", "ALLOCS", "FREES"})
	m.pools.For(func(index int, pool *Pool) (next bool) {
		table.Append([]string{
			strconv.FormatUint(uint64(pool.Id), 10),
			pool.Name,
			pool.Kind.String(),
			strconv.FormatUint(uint64(pool.Size), 10),
			strconv.FormatUint(uint64(pool.Used), 10),
			strconv.FormatUint(uint64(pool.PeakUsage), 10),
			strconv.FormatUint(uint64(pool.Allocs), 10),
			strconv.FormatUint(uint64(pool.Frees), 10),
		})
		return true
	})
	table.Render()
}
