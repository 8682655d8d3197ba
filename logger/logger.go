package logger

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DEBUG = iota
	INFO
	WARN
	ERROR
)

func ParseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return DEBUG
	}
}

var levelMap = map[int][]byte{
	DEBUG: []byte("DEBUG"),
	INFO:  []byte("INFO"),
	WARN:  []byte("WARN"),
	ERROR: []byte("ERROR"),
}

var (
	leftBracket  = []byte("[")
	rightBracket = []byte("]")
	space        = []byte(" ")
	colon        = []byte(":")
	funcBracket  = []byte("()")
	lineFeed     = []byte("\n")
)

var (
	red     = []byte{27, 91, 51, 49, 109}
	green   = []byte{27, 91, 51, 50, 109}
	yellow  = []byte{27, 91, 51, 51, 109}
	blue    = []byte{27, 91, 51, 52, 109}
	magenta = []byte{27, 91, 51, 53, 109}
	cyan    = []byte{27, 91, 51, 54, 109}
	reset   = []byte{27, 91, 48, 109}
)

const (
	defaultFileMaxSize = 10485760
	logInfoChanSize    = 1000
	maxWriteCacheNum   = 1000
)

var (
	logger *Logger = nil
	config *Config = nil
)

func GetConfig() *Config {
	return config
}

type Config struct {
	AppName      string
	Level        int
	TrackLine    bool
	TrackThread  bool
	EnableFile   bool
	FileMaxSize  int32
	DisableColor bool
}

type Logger struct {
	LogFile       *os.File
	LogInfoChan   chan *LogInfo
	WriteBuf      []byte
	WriteCacheNum int32
	CloseChan     chan struct{}
}

type LogInfo struct {
	Time        time.Time
	Level       int
	Msg         *[]byte
	FileName    string
	FuncName    string
	Line        int
	GoroutineId string
	ThreadId    string
	TrackLine   bool
	TrackThread bool
}

func InitLogger(cfg *Config) {
	if cfg == nil {
		cfg = &Config{
			AppName:      "application",
			Level:        DEBUG,
			TrackLine:    true,
			TrackThread:  false,
			EnableFile:   false,
			FileMaxSize:  0,
			DisableColor: false,
		}
	}
	config = cfg
	if config.FileMaxSize == 0 {
		config.FileMaxSize = defaultFileMaxSize
	}

	logger = new(Logger)
	logger.LogInfoChan = make(chan *LogInfo, logInfoChanSize)
	logger.WriteBuf = make([]byte, 0)
	logger.WriteCacheNum = 0
	logger.CloseChan = make(chan struct{})
	go logger.doLog()
}

func CloseLogger() {
	logger.CloseChan <- struct{}{}
	<-logger.CloseChan
	logger = nil
	config = nil
}

func (l *Logger) doLog() {
	var logBuf bytes.Buffer
	timeBuf := make([]byte, 0, 64)
	exit := false
	exitCountDown := 0
	for {
		select {
		case <-l.CloseChan:
			exit = true
			exitCountDown = len(l.LogInfoChan)
		case logInfo := <-l.LogInfoChan:
			if !config.DisableColor {
				logBuf.Write(cyan)
			}
			logBuf.Write(leftBracket)
			logBuf.Write(logInfo.Time.AppendFormat(timeBuf, "2006-01-02 15:04:05.000"))
			logBuf.Write(rightBracket)
			if !config.DisableColor {
				logBuf.Write(reset)
			}
			logBuf.Write(space)

			if !config.DisableColor {
				switch logInfo.Level {
				case DEBUG:
					logBuf.Write(blue)
				case INFO:
					logBuf.Write(green)
				case WARN:
					logBuf.Write(yellow)
				case ERROR:
					logBuf.Write(red)
				}
			}
			logBuf.Write(leftBracket)
			logBuf.Write(levelMap[logInfo.Level])
			logBuf.Write(rightBracket)
			if !config.DisableColor {
				logBuf.Write(reset)
			}
			logBuf.Write(space)

			if !config.DisableColor && logInfo.Level == ERROR {
				logBuf.Write(red)
				logBuf.Write(*logInfo.Msg)
				logBuf.Write(reset)
			} else {
				logBuf.Write(*logInfo.Msg)
			}

			if logInfo.TrackLine {
				logBuf.Write(space)
				if !config.DisableColor {
					logBuf.Write(magenta)
				}
				logBuf.Write(leftBracket)
				logBuf.Write([]byte(logInfo.FileName))
				logBuf.Write(colon)
				logBuf.Write([]byte(strconv.Itoa(logInfo.Line)))
				logBuf.Write(space)
				logBuf.Write([]byte(logInfo.FuncName))
				logBuf.Write(funcBracket)
				if logInfo.TrackThread {
					logBuf.Write(space)
					logBuf.Write([]byte("goroutine"))
					logBuf.Write(colon)
					logBuf.Write([]byte(logInfo.GoroutineId))
					logBuf.Write(space)
					logBuf.Write([]byte("thread"))
					logBuf.Write(colon)
					logBuf.Write([]byte(logInfo.ThreadId))
				}
				logBuf.Write(rightBracket)
				if !config.DisableColor {
					logBuf.Write(reset)
				}
			}

			logBuf.Write(lineFeed)

			logData := logBuf.Bytes()
			l.writeLog(logData)
			putBuf(logInfo.Msg)
			logInfoPool.Put(logInfo)
			logBuf.Reset()
			timeBuf = timeBuf[0:0]
			if exit {
				exitCountDown--
			}
		}
		if exit && exitCountDown == 0 {
			l.CloseChan <- struct{}{}
			return
		}
	}
}

func (l *Logger) writeLog(logData []byte) {
	l.WriteBuf = append(l.WriteBuf, logData...)
	l.WriteCacheNum++
	if len(l.LogInfoChan) != 0 && l.WriteCacheNum < maxWriteCacheNum {
		return
	}
	l.writeLogConsole(l.WriteBuf)
	if config.EnableFile {
		l.writeLogFile(l.WriteBuf)
	}
	l.WriteBuf = l.WriteBuf[0:0]
	l.WriteCacheNum = 0
}

func (l *Logger) writeLogConsole(logData []byte) {
	_, _ = os.Stderr.Write(logData)
}

func (l *Logger) writeLogFile(logData []byte) {
	if l.LogFile == nil {
		fileName := "./log/" + config.AppName + ".log"
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("open new log file error: %v\n", err))
			return
		}
		l.LogFile = file
	}
	fileStat, err := l.LogFile.Stat()
	if err != nil {
		_, _ = os.Stderr.WriteString(fmt.Sprintf("get log file stat error: %v\n", err))
		return
	}
	if fileStat.Size() >= int64(config.FileMaxSize) {
		err := l.LogFile.Close()
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("close old log file error: %v\n", err))
			return
		}
		timeStr := time.Now().Format("20060102150405")
		err = os.Rename(l.LogFile.Name(), l.LogFile.Name()+"."+timeStr)
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("rename old log file error: %v\n", err))
			return
		}
		fileName := "./log/" + config.AppName + ".log"
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("open new log file error: %v\n", err))
			return
		}
		l.LogFile = file
	}
	_, err = l.LogFile.Write(logData)
	if err != nil {
		_, _ = os.Stderr.WriteString(fmt.Sprintf("write log file error: %v\n", err))
		return
	}
}

var bufPool = sync.Pool{New: func() any { return new([]byte) }}

func getBuf() *[]byte {
	p := bufPool.Get().(*[]byte)
	*p = (*p)[0:0]
	return p
}

func putBuf(p *[]byte) {
	if cap(*p) > 64<<10 {
		*p = nil
	}
	bufPool.Put(p)
}

var logInfoPool = sync.Pool{New: func() any { return new(LogInfo) }}

func formatLog(level int, msg string, param []any) {
	logInfo := logInfoPool.Get().(*LogInfo)
	logInfo.Time = time.Now()
	logInfo.Level = level
	buf := getBuf()
	*buf = fmt.Appendf(*buf, msg, param...)
	logInfo.Msg = buf
	logInfo.TrackLine = false
	logInfo.TrackThread = false
	if config.TrackLine {
		logInfo.FileName, logInfo.Line, logInfo.FuncName = logger.getLineFunc()
		logInfo.TrackLine = true
	}
	if config.TrackThread {
		logInfo.GoroutineId = logger.getGoroutineId()
		logInfo.ThreadId = logger.getThreadId()
		logInfo.TrackThread = true
	}
	logger.LogInfoChan <- logInfo
}

func Debug(msg string, param ...any) {
	if config == nil || config.Level > DEBUG {
		return
	}
	formatLog(DEBUG, msg, param)
}

func Info(msg string, param ...any) {
	if config == nil || config.Level > INFO {
		return
	}
	formatLog(INFO, msg, param)
}

func Warn(msg string, param ...any) {
	if config == nil || config.Level > WARN {
		return
	}
	formatLog(WARN, msg, param)
}

func Error(msg string, param ...any) {
	if config == nil || config.Level > ERROR {
		return
	}
	formatLog(ERROR, msg, param)
}

func (l *Logger) getGoroutineId() (goroutineId string) {
	buf := make([]byte, 32)
	runtime.Stack(buf, false)
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	buf = buf[:bytes.IndexByte(buf, ' ')]
	goroutineId = string(buf)
	return goroutineId
}

func (l *Logger) getLineFunc() (fileName string, line int, funcName string) {
	var pc uintptr
	var file string
	var ok bool
	pc, file, line, ok = runtime.Caller(2)
	if !ok {
		return "???", -1, "???"
	}
	fileName = path.Base(file)
	funcName = runtime.FuncForPC(pc).Name()
	split := strings.Split(funcName, ".")
	if len(split) != 0 {
		funcName = split[len(split)-1]
	}
	return fileName, line, funcName
}

func Stack() string {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}
