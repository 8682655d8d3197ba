package mem

import (
	"encoding/binary"
)

// 块头布局 堆内按地址顺序的双向链表节点
// 0x0 size u32 负载字节数 不含块头
// 0x4 flag u32 bit0为空闲标记
// 0x8 prev u32 前一个块头偏移
// 0xC next u32 后一个块头偏移
const (
	blockHeaderSize = 16
	blockSizeOff    = 0
	blockFlagOff    = 4
	blockPrevOff    = 8
	blockNextOff    = 12

	blockFlagFree = uint32(1)

	nilBlock = ^uint32(0)
)

type HeapStats struct {
	Total      uint32
	Used       uint32
	Free       uint32
	BlockCount uint32
}

type Heap struct {
	region     Region
	data       []byte
	total      uint32
	used       uint32
	free       uint32
	blockCount uint32
	head       uint32
}

func NewHeap(region Region) *Heap {
	if region == nil {
		Fatal("heap init fail: nil region")
		return nil
	}
	data := region.Bytes()
	if uint64(len(data)) < blockHeaderSize+8 || uint64(len(data)) > uint64(nilBlock) {
		Fatal("heap init fail: bad region size: %v", len(data))
		return nil
	}
	h := &Heap{
		region:     region,
		data:       data,
		total:      uint32(len(data)),
		used:       0,
		free:       uint32(len(data)),
		blockCount: 1,
		head:       0,
	}
	h.setBlockSize(h.head, h.total-blockHeaderSize)
	h.setBlockFree(h.head, true)
	h.setBlockPrev(h.head, nilBlock)
	h.setBlockNext(h.head, nilBlock)
	return h
}

// Malloc 首次适应分配 返回8字节对齐地址 失败返回NullAddr
func (h *Heap) Malloc(size uint32) Addr {
	if size == 0 {
		return NullAddr
	}
	size = align8(size)
	// 对齐回绕时size为0 此类超大请求直接按内存不足处理
	if size == 0 || size > h.free {
		return NullAddr
	}
	for off := h.head; off != nilBlock; off = h.blockNext(off) {
		if !h.blockFree(off) {
			continue
		}
		blockSize := h.blockSize(off)
		if blockSize < size {
			continue
		}
		if blockSize > size+blockHeaderSize {
			h.splitBlock(off, size)
		}
		h.setBlockFree(off, false)
		h.used += h.blockSize(off) + blockHeaderSize
		h.free -= h.blockSize(off) + blockHeaderSize
		return Addr(off + blockHeaderSize)
	}
	return NullAddr
}

func (h *Heap) Free(addr Addr) error {
	if addr == NullAddr {
		return ErrInvalidAddr
	}
	if uint32(addr) < blockHeaderSize || uint32(addr) >= h.total {
		return ErrInvalidAddr
	}
	off := uint32(addr) - blockHeaderSize
	if h.blockFree(off) {
		return ErrDoubleFree
	}
	h.setBlockFree(off, true)
	h.used -= h.blockSize(off) + blockHeaderSize
	h.free += h.blockSize(off) + blockHeaderSize
	h.coalesce()
	return nil
}

// Bytes 访问已分配地址对应的内存
func (h *Heap) Bytes(addr Addr, size uint32) []byte {
	return h.data[uint32(addr) : uint32(addr)+size]
}

func (h *Heap) Stats() HeapStats {
	return HeapStats{
		Total:      h.total,
		Used:       h.used,
		Free:       h.free,
		BlockCount: h.blockCount,
	}
}

// splitBlock 分割块 剩余部分作为新空闲块插入链表
func (h *Heap) splitBlock(off uint32, size uint32) {
	newOff := off + blockHeaderSize + size
	h.setBlockSize(newOff, h.blockSize(off)-size-blockHeaderSize)
	h.setBlockFree(newOff, true)
	h.setBlockPrev(newOff, off)
	h.setBlockNext(newOff, h.blockNext(off))
	if next := h.blockNext(off); next != nilBlock {
		h.setBlockPrev(next, newOff)
	}
	h.setBlockSize(off, size)
	h.setBlockNext(off, newOff)
	h.blockCount++
}

// coalesce 合并地址相邻的空闲块 合并后不前进以吞并连续空闲块
func (h *Heap) coalesce() {
	off := h.head
	for off != nilBlock {
		next := h.blockNext(off)
		if next == nilBlock {
			break
		}
		if h.blockFree(off) && h.blockFree(next) {
			h.setBlockSize(off, h.blockSize(off)+h.blockSize(next)+blockHeaderSize)
			nn := h.blockNext(next)
			h.setBlockNext(off, nn)
			if nn != nilBlock {
				h.setBlockPrev(nn, off)
			}
			h.blockCount--
			continue
		}
		off = next
	}
}

func (h *Heap) blockSize(off uint32) uint32 {
	return binary.LittleEndian.Uint32(h.data[off+blockSizeOff:])
}

func (h *Heap) setBlockSize(off uint32, size uint32) {
	binary.LittleEndian.PutUint32(h.data[off+blockSizeOff:], size)
}

func (h *Heap) blockFree(off uint32) bool {
	return binary.LittleEndian.Uint32(h.data[off+blockFlagOff:])&blockFlagFree != 0
}

func (h *Heap) setBlockFree(off uint32, free bool) {
	flag := uint32(0)
	if free {
		flag = blockFlagFree
	}
	binary.LittleEndian.PutUint32(h.data[off+blockFlagOff:], flag)
}

func (h *Heap) blockPrev(off uint32) uint32 {
	return binary.LittleEndian.Uint32(h.data[off+blockPrevOff:])
}

func (h *Heap) setBlockPrev(off uint32, prev uint32) {
	binary.LittleEndian.PutUint32(h.data[off+blockPrevOff:], prev)
}

func (h *Heap) blockNext(off uint32) uint32 {
	return binary.LittleEndian.Uint32(h.data[off+blockNextOff:])
}

func (h *Heap) setBlockNext(off uint32, next uint32) {
	binary.LittleEndian.PutUint32(h.data[off+blockNextOff:], next)
}
