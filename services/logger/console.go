package logsvc

import (
	"log"

	"github.com/darasa/darasa-client/core"
)

// ConsoleLogger prints everything to a standard logger. It is used in debug
// mode and in tests where error reporting would be noise.
type ConsoleLogger struct {
	std     *log.Logger
	enabled bool
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger) *ConsoleLogger {
	return &ConsoleLogger{std: std, enabled: true}
}

func (l *ConsoleLogger) Enable(enabled bool) { l.enabled = enabled }

func (l *ConsoleLogger) print(lvl, msg string, args []interface{}) {
	if !l.enabled {
		return
	}
	l.std.Printf("%s %s\n", lvl, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.print("DBG", msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.print("INF", msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.print("WRN", msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.print("ERR", msg, args) }
func (l *ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.print("FTL", msg, args)
	l.std.Fatal(msg)
}
