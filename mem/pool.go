package mem

import (
	"encoding/binary"

	"github.com/flswld/kmem/logger"
)

type PoolKind uint8

const (
	PoolDefault PoolKind = iota
	PoolSmall
	PoolMedium
	PoolLarge
	PoolSpecial
)

// BlockSize 类型对应的标称块大小 仅作参考不做校验
func (k PoolKind) BlockSize() uint32 {
	switch k {
	case PoolSmall:
		return 64
	case PoolMedium:
		return 256
	case PoolLarge:
		return 1024
	case PoolSpecial:
		return 4096
	default:
		return 128
	}
}

func (k PoolKind) String() string {
	switch k {
	case PoolDefault:
		return "DEFAULT"
	case PoolSmall:
		return "SMALL"
	case PoolMedium:
		return "MEDIUM"
	case PoolLarge:
		return "LARGE"
	case PoolSpecial:
		return "SPECIAL"
	default:
		return "UNKNOWN"
	}
}

const (
	poolNameLen  = 32
	poolDescSize = 64
)

// Pool 从堆中划出的固定容量命名内存池 字段只读 通过方法修改
type Pool struct {
	Id        uint32
	Name      string
	Kind      PoolKind
	Desc      Addr
	Base      Addr
	Size      uint32
	BlockSize uint32
	Used      uint32
	PeakUsage uint32
	Allocs    uint32
	Frees     uint32
}

// Alloc 池内子分配 只推进已用字节数 失败返回NullAddr
func (p *Pool) Alloc(size uint32) Addr {
	if p == nil || size == 0 {
		return NullAddr
	}
	if size > p.Size-p.Used {
		return NullAddr
	}
	addr := Addr(uint32(p.Base) + p.Used)
	p.Used += size
	p.Allocs++
	if p.Used > p.PeakUsage {
		p.PeakUsage = p.Used
	}
	return addr
}

// Free 简化实现 只更新统计不回收空间 池内空间在池生命周期内不可复用
func (p *Pool) Free(addr Addr) error {
	if p == nil || addr == NullAddr {
		return ErrInvalidAddr
	}
	p.Frees++
	return nil
}

func (m *Memory) CreatePool(name string, kind PoolKind, size uint32) *Pool {
	if m.pools.Count() >= m.pools.Cap() {
		logger.Error("memory pool limit reached, name: %v", name)
		return nil
	}
	if size == 0 {
		return nil
	}
	descAddr := m.heap.Malloc(poolDescSize)
	if descAddr == NullAddr {
		logger.Error("alloc pool desc fail, name: %v", name)
		return nil
	}
	baseAddr := m.heap.Malloc(size)
	if baseAddr == NullAddr {
		logger.Error("alloc pool memory fail, name: %v, size: %v", name, size)
		_ = m.heap.Free(descAddr)
		return nil
	}
	if len(name) > poolNameLen {
		name = name[:poolNameLen]
	}
	pool := &Pool{
		Id:        uint32(m.pools.Count()) + 1,
		Name:      name,
		Kind:      kind,
		Desc:      descAddr,
		Base:      baseAddr,
		Size:      size,
		BlockSize: kind.BlockSize(),
	}
	m.writePoolDesc(pool)
	m.pools.Put(pool)
	logger.Info("create memory pool, name: %v, id: %v, size: %v KB", pool.Name, pool.Id, size/KB)
	return pool
}

func (m *Memory) DestroyPool(pool *Pool) error {
	if pool == nil {
		return ErrInvalidPool
	}
	index := -1
	m.pools.For(func(i int, p *Pool) (next bool) {
		if p == pool {
			index = i
			return false
		}
		return true
	})
	if index < 0 {
		return ErrInvalidPool
	}
	logger.Info("destroy memory pool, name: %v, id: %v", pool.Name, pool.Id)
	m.pools.Clear(index)
	_ = m.heap.Free(pool.Base)
	_ = m.heap.Free(pool.Desc)
	return nil
}

// FindPool 线性扫描 重名时返回最先注册的池
func (m *Memory) FindPool(name string) *Pool {
	var found *Pool
	m.pools.For(func(index int, pool *Pool) (next bool) {
		if pool.Name == name {
			found = pool
			return false
		}
		return true
	})
	return found
}

func (m *Memory) FindPoolById(id uint32) *Pool {
	var found *Pool
	m.pools.For(func(index int, pool *Pool) (next bool) {
		if pool.Id == id {
			found = pool
			return false
		}
		return true
	})
	return found
}

// writePoolDesc 将池记录写入描述符块
func (m *Memory) writePoolDesc(pool *Pool) {
	desc := m.heap.Bytes(pool.Desc, poolDescSize)
	for i := range desc {
		desc[i] = 0
	}
	binary.LittleEndian.PutUint32(desc[0:], pool.Id)
	binary.LittleEndian.PutUint32(desc[4:], uint32(pool.Kind))
	binary.LittleEndian.PutUint32(desc[8:], uint32(pool.Base))
	binary.LittleEndian.PutUint32(desc[12:], pool.Size)
	binary.LittleEndian.PutUint32(desc[16:], pool.BlockSize)
	copy(desc[20:20+poolNameLen], pool.Name)
}
