//go:build !linux
// +build !linux

package logger

func (l *Logger) getThreadId() (threadId string) {
	return "0"
}
