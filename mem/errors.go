package mem

import "errors"

var (
	// ErrInvalidAddr 空地址或越界地址
	ErrInvalidAddr = errors.New("mem: invalid address")

	// ErrDoubleFree 重复释放
	ErrDoubleFree = errors.New("mem: double free")

	// ErrInvalidPool 空内存池或未注册的内存池
	ErrInvalidPool = errors.New("mem: invalid pool")
)
