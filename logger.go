package nextfetch

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger accepts leveled messages with alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger is a minimal console logger writing to stderr.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a console logger suitable for development use.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) { l.log("DEBUG", msg, keysAndValues) }
func (l *SimpleLogger) Info(msg string, keysAndValues ...any)  { l.log("INFO", msg, keysAndValues) }
func (l *SimpleLogger) Warn(msg string, keysAndValues ...any)  { l.log("WARN", msg, keysAndValues) }
func (l *SimpleLogger) Error(msg string, keysAndValues ...any) { l.log("ERROR", msg, keysAndValues) }

func (l *SimpleLogger) log(level, msg string, keysAndValues []any) {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(level)
	b.WriteString("] ")
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Println(b.String())
}

// zerologLogger adapts a zerolog.Logger to the Logger interface so library
// users can plug in their service logger.
type zerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger as a Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{l: l}
}

func (z *zerologLogger) Debug(msg string, keysAndValues ...any) {
	z.emit(z.l.Debug(), msg, keysAndValues)
}

func (z *zerologLogger) Info(msg string, keysAndValues ...any) {
	z.emit(z.l.Info(), msg, keysAndValues)
}

func (z *zerologLogger) Warn(msg string, keysAndValues ...any) {
	z.emit(z.l.Warn(), msg, keysAndValues)
}

func (z *zerologLogger) Error(msg string, keysAndValues ...any) {
	z.emit(z.l.Error(), msg, keysAndValues)
}

func (z *zerologLogger) emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		ev = ev.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	ev.Msg(msg)
}

// DebugConfig controls debug logging output. Logging is emitted only when
// Enabled is true and a Logger is configured.
type DebugConfig struct {
	Enabled         bool
	LogRequests     bool
	LogResponses    bool
	LogInterceptors bool
	RequestIDGen    func() string
}

// DefaultDebugConfig returns a config with all log categories on (but
// disabled overall) and uuid request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:         false,
		LogRequests:     true,
		LogResponses:    true,
		LogInterceptors: true,
		RequestIDGen:    uuid.NewString,
	}
}
