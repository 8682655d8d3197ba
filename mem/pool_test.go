package mem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	region := NewSliceRegion(16 * MB)
	require.NotNil(t, region)
	return NewMemory(region)
}

func TestMemoryDefaultPool(t *testing.T) {
	m := newTestMemory(t)
	pool := m.FindPool("default")
	require.NotNil(t, pool)
	require.Equal(t, uint32(1), pool.Id)
	require.Equal(t, PoolDefault, pool.Kind)
	require.Equal(t, uint32(1*MB), pool.Size)
	require.Equal(t, uint32(128), pool.BlockSize)
	require.Equal(t, uint32(1), m.PoolCount())
}

func TestPoolBumpAlloc(t *testing.T) {
	m := newTestMemory(t)
	pool := m.CreatePool("bump", PoolDefault, 1*MB)
	require.NotNil(t, pool)
	for i := 0; i < 3; i++ {
		addr := pool.Alloc(300 * KB)
		require.NotEqual(t, NullAddr, addr)
		require.Equal(t, Addr(uint32(pool.Base)+uint32(i)*300*KB), addr)
	}
	// 900KB已占用 第四次300KB超出容量
	require.Equal(t, NullAddr, pool.Alloc(300*KB))
	require.Equal(t, uint32(900*KB), pool.Used)
	require.Equal(t, uint32(900*KB), pool.PeakUsage)
	require.Equal(t, uint32(3), pool.Allocs)
}

func TestPoolAllocZeroSize(t *testing.T) {
	m := newTestMemory(t)
	pool := m.FindPool("default")
	require.NotNil(t, pool)
	require.Equal(t, NullAddr, pool.Alloc(0))
	require.Equal(t, uint32(0), pool.Allocs)
}

func TestPoolFreeCountsOnly(t *testing.T) {
	m := newTestMemory(t)
	pool := m.FindPool("default")
	require.NotNil(t, pool)
	addr := pool.Alloc(128)
	require.NotEqual(t, NullAddr, addr)
	used := pool.Used
	require.NoError(t, pool.Free(addr))
	require.Equal(t, uint32(1), pool.Frees)
	// 释放不回收空间 已用字节数不变
	require.Equal(t, used, pool.Used)
	require.ErrorIs(t, pool.Free(NullAddr), ErrInvalidAddr)
}

func TestPoolKind(t *testing.T) {
	require.Equal(t, uint32(128), PoolDefault.BlockSize())
	require.Equal(t, uint32(64), PoolSmall.BlockSize())
	require.Equal(t, uint32(256), PoolMedium.BlockSize())
	require.Equal(t, uint32(1024), PoolLarge.BlockSize())
	require.Equal(t, uint32(4096), PoolSpecial.BlockSize())
	require.Equal(t, "DEFAULT", PoolDefault.String())
	require.Equal(t, "SMALL", PoolSmall.String())
	require.Equal(t, "MEDIUM", PoolMedium.String())
	require.Equal(t, "LARGE", PoolLarge.String())
	require.Equal(t, "SPECIAL", PoolSpecial.String())
	require.Equal(t, "UNKNOWN", PoolKind(200).String())
}

func TestPoolDestroy(t *testing.T) {
	m := newTestMemory(t)
	before := m.Stats()
	pool := m.CreatePool("temp", PoolSmall, 64*KB)
	require.NotNil(t, pool)
	require.Equal(t, uint32(2), m.PoolCount())
	require.NoError(t, m.DestroyPool(pool))
	require.Equal(t, uint32(1), m.PoolCount())
	require.Nil(t, m.FindPool("temp"))
	// 池的描述符和区域都已归还堆
	require.Equal(t, before, m.Stats())
	require.ErrorIs(t, m.DestroyPool(pool), ErrInvalidPool)
	require.ErrorIs(t, m.DestroyPool(nil), ErrInvalidPool)
}

func TestPoolCreateRollback(t *testing.T) {
	region := NewSliceRegion(4 * MB)
	require.NotNil(t, region)
	m := NewMemory(region)
	before := m.Stats()
	require.Nil(t, m.CreatePool("big", PoolLarge, 8*MB))
	require.Equal(t, before, m.Stats())
	require.Nil(t, m.CreatePool("empty", PoolDefault, 0))
	require.Equal(t, before, m.Stats())
}

func TestPoolRegistryFull(t *testing.T) {
	m := newTestMemory(t)
	for i := 1; i < MaxPools; i++ {
		pool := m.CreatePool("pool", PoolSmall, 8*KB)
		require.NotNil(t, pool)
	}
	require.Equal(t, uint32(MaxPools), m.PoolCount())
	require.Nil(t, m.CreatePool("overflow", PoolSmall, 8*KB))
}

func TestPoolFindDuplicateName(t *testing.T) {
	m := newTestMemory(t)
	first := m.CreatePool("dup", PoolSmall, 8*KB)
	second := m.CreatePool("dup", PoolMedium, 8*KB)
	require.NotNil(t, first)
	require.NotNil(t, second)
	// 重名时返回最先注册的池
	require.Same(t, first, m.FindPool("dup"))
}

func TestPoolFindById(t *testing.T) {
	m := newTestMemory(t)
	pool := m.CreatePool("byid", PoolMedium, 8*KB)
	require.NotNil(t, pool)
	require.Same(t, pool, m.FindPoolById(pool.Id))
	require.Nil(t, m.FindPoolById(100))
}

func TestPoolIdReuse(t *testing.T) {
	m := newTestMemory(t)
	second := m.CreatePool("second", PoolSmall, 8*KB)
	require.NotNil(t, second)
	require.Equal(t, uint32(2), second.Id)
	require.NoError(t, m.DestroyPool(second))
	// id只在存活池间唯一 销毁后会被复用
	third := m.CreatePool("third", PoolSmall, 8*KB)
	require.NotNil(t, third)
	require.Equal(t, uint32(2), third.Id)
}

func TestPoolIdCollision(t *testing.T) {
	m := newTestMemory(t)
	second := m.CreatePool("second", PoolSmall, 8*KB)
	third := m.CreatePool("third", PoolSmall, 8*KB)
	require.NotNil(t, second)
	require.NotNil(t, third)
	require.NoError(t, m.DestroyPool(second))
	// id取存活池数量加一 销毁中间的池后新池会与存活池重号
	fourth := m.CreatePool("fourth", PoolSmall, 8*KB)
	require.NotNil(t, fourth)
	require.Equal(t, third.Id, fourth.Id)
	// 重号时按槽位顺序返回第一个匹配的池 新池占用了靠前的空闲槽位
	require.Same(t, fourth, m.FindPoolById(third.Id))
}

func TestPoolNameTruncation(t *testing.T) {
	m := newTestMemory(t)
	longName := strings.Repeat("x", 40)
	pool := m.CreatePool(longName, PoolSmall, 8*KB)
	require.NotNil(t, pool)
	require.Equal(t, 32, len(pool.Name))
	require.Same(t, pool, m.FindPool(longName[:32]))
}

func TestPoolDescRecord(t *testing.T) {
	m := newTestMemory(t)
	pool := m.CreatePool("desc", PoolLarge, 8*KB)
	require.NotNil(t, pool)
	desc := m.Heap().Bytes(pool.Desc, poolDescSize)
	require.Equal(t, pool.Id, uint32(desc[0])|uint32(desc[1])<<8|uint32(desc[2])<<16|uint32(desc[3])<<24)
	require.Equal(t, "desc", string(desc[20:24]))
}
