package example

import (
	"os"

	"github.com/flswld/kmem/logger"
	"github.com/flswld/kmem/mem"
)

// KernelMemory 内核内存管理器使用示例
func KernelMemory() {
	logger.InitLogger(nil)
	defer logger.CloseLogger()

	// 申请16MB内存区域作为内核堆
	region, err := mem.NewMmapRegion(16 * mem.MB)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = region.Release()
	}()

	// 初始化内存管理器 自动创建默认内存池
	m := mem.NewMemory(region)

	// 直接从堆分配
	addr := m.Malloc(100)
	if addr == mem.NullAddr {
		panic("malloc fail")
	}
	buf := m.Heap().Bytes(addr, 100)
	for i := range buf {
		buf[i] = 0xFF
	}
	err = m.Free(addr)
	if err != nil {
		panic(err)
	}

	// 创建内存池并进行子分配
	pool := m.CreatePool("object", mem.PoolSmall, 1*mem.MB)
	if pool == nil {
		panic("create pool fail")
	}
	for i := 0; i < 10; i++ {
		p := pool.Alloc(64)
		if p == mem.NullAddr {
			panic("pool alloc fail")
		}
	}

	// 按名字或id查找内存池
	if mem.PoolSmall != m.FindPool("object").Kind {
		panic("find pool fail")
	}
	if m.FindPoolById(pool.Id) != pool {
		panic("find pool fail")
	}

	// 打印统计信息
	stats := m.Stats()
	logger.Info("total: %v, used: %v, free: %v, blocks: %v, pools: %v",
		stats.Total, stats.Used, stats.Free, stats.Blocks, stats.Pools)
	m.ListPools(os.Stdout)

	// 销毁内存池
	err = m.DestroyPool(pool)
	if err != nil {
		panic(err)
	}
}
