package mem

type Region interface {
	Bytes() []byte
	Release() error
}

type sliceRegion struct {
	data []byte
}

func NewSliceRegion(size uint32) Region {
	if size == 0 {
		return nil
	}
	return &sliceRegion{data: make([]byte, size)}
}

func (r *sliceRegion) Bytes() []byte {
	return r.data
}

func (r *sliceRegion) Release() error {
	r.data = nil
	return nil
}
