//go:build windows
// +build windows

package mem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

type mmapRegion struct {
	addr uintptr
	data []byte
}

func NewMmapRegion(size uint32) (Region, error) {
	if size == 0 {
		return nil, windows.ERROR_INVALID_PARAMETER
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return &mmapRegion{
		addr: addr,
		data: unsafe.Slice((*byte)(unsafe.Pointer(addr)), size),
	}, nil
}

func (r *mmapRegion) Bytes() []byte {
	return r.data
}

func (r *mmapRegion) Release() error {
	if r.addr == 0 {
		return nil
	}
	err := windows.VirtualFree(r.addr, 0, windows.MEM_RELEASE)
	r.addr = 0
	r.data = nil
	return err
}
