//go:build linux || darwin
// +build linux darwin

package mem

import (
	"golang.org/x/sys/unix"
)

type mmapRegion struct {
	data []byte
}

func NewMmapRegion(size uint32) (Region, error) {
	if size == 0 {
		return nil, unix.EINVAL
	}
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &mmapRegion{data: data}, nil
}

func (r *mmapRegion) Bytes() []byte {
	return r.data
}

func (r *mmapRegion) Release() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	return err
}
