// Package logx is the process-wide structured logger. Lines are JSON objects
// written through zerolog; secrets are redacted and long values truncated
// unless verbose output is enabled.
package logx

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "debug"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

// ParseLevel maps a level name to a Level. Unknown names yield LevelWarn.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

const maxFieldLen = 2 * 1024

var (
	mu       sync.RWMutex
	minLevel           = LevelWarn
	out      io.Writer = io.Discard
	secrets            = make([]string, 0)
	verbose  bool
)

// SetOutput sets the destination for logs. A nil writer discards.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	out = w
	mu.Unlock()
}

// SetMinLevel sets the minimum level to emit.
func SetMinLevel(l Level) { mu.Lock(); minLevel = l; mu.Unlock() }

// SetVerbose toggles verbose output (no truncation of large fields/messages).
func SetVerbose(v bool) { mu.Lock(); verbose = v; mu.Unlock() }

// Verbose returns whether verbose output is enabled.
func Verbose() bool { mu.RLock(); defer mu.RUnlock(); return verbose }

// RegisterSecret adds a string to be redacted in outputs.
func RegisterSecret(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	mu.Lock()
	secrets = append(secrets, s)
	mu.Unlock()
}

// OpenFile points the logger at path (append mode) and returns the file so
// the caller can close it on shutdown.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(f)
	return f, nil
}

// StdlogWriter wraps writes as structured JSON lines at a fixed level.
func StdlogWriter(level Level, w io.Writer) io.Writer {
	if w == nil {
		w = os.Stderr
	}
	return &stdlogWriter{level: level, w: w}
}

type stdlogWriter struct {
	level Level
	w     io.Writer
}

// StdLogger returns a *log.Logger that writes through the package output at
// level, following later SetOutput calls.
func StdLogger(level Level) *log.Logger {
	return log.New(&stdlogWriter{level: level}, "", 0)
}

func (sw *stdlogWriter) Write(p []byte) (int, error) {
	w := sw.w
	if w == nil {
		w = current()
	}
	lines := bytes.Split(p, []byte("\n"))
	written := 0
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if err := emit(w, sw.level, string(line), nil); err != nil {
			return written, err
		}
		written += len(line) + 1
	}
	return written, nil
}

func current() io.Writer { mu.RLock(); defer mu.RUnlock(); return out }

// Debugf logs a debug message.
func Debugf(format string, args ...any) { _ = emit(current(), LevelDebug, fmt.Sprintf(format, args...), nil) }

// Infof logs an info message.
func Infof(format string, args ...any) { _ = emit(current(), LevelInfo, fmt.Sprintf(format, args...), nil) }

// Warnf logs a warning message.
func Warnf(format string, args ...any) { _ = emit(current(), LevelWarn, fmt.Sprintf(format, args...), nil) }

// Errorf logs an error message.
func Errorf(format string, args ...any) { _ = emit(current(), LevelError, fmt.Sprintf(format, args...), nil) }

// Event logs msg with structured fields.
func Event(level Level, msg string, fields map[string]any) { _ = emit(current(), level, msg, fields) }

// errWriter remembers the first write error so emit can report it; zerolog
// itself only hands write errors to a global handler.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil && e.err == nil {
		e.err = err
	}
	return n, err
}

func emit(w io.Writer, lvl Level, msg string, fields map[string]any) error {
	mu.RLock()
	ml := minLevel
	v := verbose
	mu.RUnlock()
	if lvl < ml {
		return nil
	}
	msg = redact(msg)
	if !v {
		msg = truncate(msg, maxFieldLen)
	}

	ew := &errWriter{w: w}
	zl := zerolog.New(ew).With().Timestamp().Logger()
	ev := zl.WithLevel(lvl.zerolog())
	for k, val := range fields {
		if s, ok := val.(string); ok {
			s = redact(s)
			if !v {
				s = truncate(s, maxFieldLen)
			}
			ev = ev.Str(k, s)
			continue
		}
		if err, ok := val.(error); ok {
			ev = ev.Str(k, redact(err.Error()))
			continue
		}
		ev = ev.Interface(k, val)
	}
	ev.Msg(msg)
	return ew.err
}

func redact(s string) string {
	mu.RLock()
	defer mu.RUnlock()
	if len(secrets) == 0 {
		return s
	}
	out := s
	for _, sec := range secrets {
		if sec == "" {
			continue
		}
		out = strings.ReplaceAll(out, sec, "[REDACTED]")
	}
	return out
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	suffix := "… [truncated]"
	if limit > len(suffix)+10 {
		head := s[:limit-len(suffix)-10]
		tail := s[len(s)-10:]
		return head + suffix + tail
	}
	return s[:limit]
}
