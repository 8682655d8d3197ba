package list

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotTablePutGet(t *testing.T) {
	s := NewSlotTable[string](4)
	require.Equal(t, 4, s.Cap())
	require.Equal(t, 0, s.Count())
	require.Equal(t, 0, s.Put("a"))
	require.Equal(t, 1, s.Put("b"))
	require.Equal(t, 2, s.Count())
	require.Equal(t, "a", s.Get(0))
	require.Equal(t, "b", s.Get(1))
	require.Equal(t, "", s.Get(2))
	require.Equal(t, "", s.Get(-1))
}

func TestSlotTableFull(t *testing.T) {
	s := NewSlotTable[int](2)
	require.Equal(t, 0, s.Put(1))
	require.Equal(t, 1, s.Put(2))
	require.Equal(t, -1, s.Put(3))
}

func TestSlotTableClearReuse(t *testing.T) {
	s := NewSlotTable[int](3)
	require.Equal(t, 0, s.Put(1))
	require.Equal(t, 1, s.Put(2))
	require.Equal(t, 2, s.Put(3))
	s.Clear(1)
	require.Equal(t, 2, s.Count())
	require.Equal(t, 0, s.Get(1))
	// 重复清除同一槽位不影响计数
	s.Clear(1)
	require.Equal(t, 2, s.Count())
	// 新值占用第一个空闲槽位
	require.Equal(t, 1, s.Put(4))
	require.Equal(t, 4, s.Get(1))
}

func TestSlotTableFor(t *testing.T) {
	s := NewSlotTable[int](4)
	s.Put(10)
	s.Put(20)
	s.Put(30)
	s.Clear(1)
	got := make([]int, 0)
	s.For(func(index int, value int) (next bool) {
		got = append(got, value)
		return true
	})
	require.Equal(t, []int{10, 30}, got)
	// 回调返回false时停止遍历
	count := 0
	s.For(func(index int, value int) (next bool) {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

func TestSlotTableBadCap(t *testing.T) {
	require.Nil(t, NewSlotTable[int](0))
	require.Nil(t, NewSlotTable[int](-1))
}
