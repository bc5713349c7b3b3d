package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

// Level is the verbosity threshold applied to every module logger.
type Level logging.Level

// The levels that can be passed to SetLevel.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
)

// Logger is the leveled logging surface shared by every package in the module.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a logger tagged with the given module name.
//
// Parameters:
//   - name: the module name printed in each record
//
// Returns:
//   - Logger: the named logger
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects every logger to the given writer. The current level is kept.
//
// Parameters:
//   - sink: the destination writer
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	level := logging.NOTICE
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}
	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveledBackend.SetLevel(level, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity for all modules.
//
// Parameters:
//   - level: the minimum level that will be emitted
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	leveledBackend.SetLevel(toLoggingLevel(level), "")
}

// Enabled reports whether records at the given level are currently emitted.
//
// Parameters:
//   - level: the level to check
//
// Returns:
//   - bool: true if the level passes the current threshold
func Enabled(level Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return leveledBackend.IsEnabledFor(toLoggingLevel(level), "")
}

func toLoggingLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
