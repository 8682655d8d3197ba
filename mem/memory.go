package mem

import (
	"github.com/flswld/kmem/list"
	"github.com/flswld/kmem/logger"
)

const (
	MaxPools        = 16
	DefaultPoolSize = 1 * MB
)

// Memory 内存管理器 持有堆分配器与内存池注册表
type Memory struct {
	heap  *Heap
	pools *list.SlotTable[*Pool]
}

func NewMemory(region Region) *Memory {
	logger.Info("init memory manager")
	m := &Memory{
		heap:  NewHeap(region),
		pools: list.NewSlotTable[*Pool](MaxPools),
	}
	pool := m.CreatePool("default", PoolDefault, DefaultPoolSize)
	if pool == nil {
		Fatal("create default memory pool fail")
		return nil
	}
	logger.Info("memory manager ready, total: %v KB", m.heap.total/KB)
	return m
}

func (m *Memory) Heap() *Heap {
	return m.heap
}

func (m *Memory) Malloc(size uint32) Addr {
	return m.heap.Malloc(size)
}

func (m *Memory) Free(addr Addr) error {
	return m.heap.Free(addr)
}

func (m *Memory) PoolCount() uint32 {
	return uint32(m.pools.Count())
}
