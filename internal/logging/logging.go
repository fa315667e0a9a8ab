// Package logging provides structured logging for paqman using bolt.
package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

// Logger is the logging interface paqman packages accept.
// This allows callers to plug in their own implementation.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// Config configures the process-wide logger.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string

	// Format is the output format (console or json).
	Format string

	// Output is the output destination. Defaults to stderr so log
	// lines never interleave with command output on stdout.
	Output *os.File
}

// DefaultConfig returns the configuration used when Init is never called.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

var (
	defaultLogger *bolt.Logger
	once          sync.Once
)

// parseLevel converts a string level to bolt.Level.
func parseLevel(s string) bolt.Level {
	switch s {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

// Init initializes the process-wide logger. Subsequent calls are no-ops.
func Init(config Config) {
	once.Do(func() {
		output := config.Output
		if output == nil {
			output = os.Stderr
		}

		var handler bolt.Handler
		if config.Format == "json" {
			handler = bolt.NewJSONHandler(output)
		} else {
			handler = bolt.NewConsoleHandler(output)
		}

		defaultLogger = bolt.New(handler).SetLevel(parseLevel(config.Level))
	})
}

// Default returns a Logger backed by the process-wide bolt logger,
// initializing it with DefaultConfig if Init was never called.
func Default() Logger {
	if defaultLogger == nil {
		Init(DefaultConfig())
	}
	return &boltLogger{logger: defaultLogger}
}

// Noop returns a Logger that discards everything.
func Noop() Logger {
	return &noopLogger{}
}

// boltLogger adapts a bolt.Logger to the Logger interface.
type boltLogger struct {
	logger *bolt.Logger
}

func (b *boltLogger) Debug(msg string, keysAndValues ...interface{}) {
	emit(b.logger.Debug(), msg, keysAndValues)
}

func (b *boltLogger) Info(msg string, keysAndValues ...interface{}) {
	emit(b.logger.Info(), msg, keysAndValues)
}

func (b *boltLogger) Warn(msg string, keysAndValues ...interface{}) {
	emit(b.logger.Warn(), msg, keysAndValues)
}

func (b *boltLogger) Error(msg string, keysAndValues ...interface{}) {
	emit(b.logger.Error(), msg, keysAndValues)
}

// emit applies normalized key-value pairs to an event and sends it.
func emit(event *bolt.Event, msg string, keysAndValues []interface{}) {
	for _, p := range pairs(keysAndValues) {
		switch v := p.value.(type) {
		case string:
			event = event.Str(p.key, v)
		case int:
			event = event.Int(p.key, v)
		case int64:
			event = event.Int64(p.key, v)
		case bool:
			event = event.Bool(p.key, v)
		case error:
			event = event.Str(p.key, v.Error())
		default:
			event = event.Str(p.key, fmt.Sprintf("%v", v))
		}
	}
	event.Msg(msg)
}

type pair struct {
	key   string
	value interface{}
}

// pairs normalizes a variadic key-value list. Non-string keys are
// stringified and a trailing key without a value gets an empty one.
func pairs(keysAndValues []interface{}) []pair {
	out := make([]pair, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		var value interface{} = ""
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		out = append(out, pair{key: key, value: value})
	}
	return out
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}
