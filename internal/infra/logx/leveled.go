package logx

import "fmt"

// Leveled adapts the package logger to the key/value leveled logger shape
// used by retrying HTTP clients. Info and Debug are demoted to debug.
type Leveled struct{}

func (Leveled) Error(msg string, keysAndValues ...any) {
	Event(LevelError, msg, kvFields(keysAndValues))
}

func (Leveled) Warn(msg string, keysAndValues ...any) {
	Event(LevelWarn, msg, kvFields(keysAndValues))
}

func (Leveled) Info(msg string, keysAndValues ...any) {
	Event(LevelDebug, msg, kvFields(keysAndValues))
}

func (Leveled) Debug(msg string, keysAndValues ...any) {
	Event(LevelDebug, msg, kvFields(keysAndValues))
}

func kvFields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]any, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			fields[key] = "(missing)"
			break
		}
		fields[key] = kv[i+1]
	}
	return fields
}
