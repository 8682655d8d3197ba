package mem

import (
	"fmt"

	"github.com/flswld/kmem/logger"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
	GB = 1024 * MB
)

// Addr 堆内偏移地址 NullAddr为空地址
type Addr uint32

const NullAddr Addr = 0

// Fatal 不可恢复错误处理 默认直接panic
var Fatal = func(msg string, param ...any) {
	logger.Error(msg, param...)
	panic(fmt.Sprintf(msg, param...))
}

func align8(size uint32) uint32 {
	return (size + 7) &^ 7
}
