package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log severities. Lines below the configured level are dropped.
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
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps LOG_LEVEL values to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type sink struct {
	mu    sync.Mutex
	w     io.Writer
	min   Level
	now   func() time.Time
	fixed map[string]any
}

var std = &sink{w: os.Stdout, min: LevelInfo, now: time.Now}

// SetOutput redirects log lines, returning a func that restores the previous writer.
func SetOutput(w io.Writer) func() {
	std.mu.Lock()
	prev := std.w
	std.w = w
	std.mu.Unlock()
	return func() {
		std.mu.Lock()
		std.w = prev
		std.mu.Unlock()
	}
}

// SetLevel sets the minimum level written.
func SetLevel(l Level) {
	std.mu.Lock()
	std.min = l
	std.mu.Unlock()
}

// SetStaticFields attaches fields such as service and version to every line.
func SetStaticFields(fields map[string]any) {
	std.mu.Lock()
	std.fixed = fields
	std.mu.Unlock()
}

func Debug(msg string, fields map[string]any) { std.log(LevelDebug, msg, fields) }
func Info(msg string, fields map[string]any)  { std.log(LevelInfo, msg, fields) }
func Warn(msg string, fields map[string]any)  { std.log(LevelWarn, msg, fields) }
func Error(msg string, fields map[string]any) { std.log(LevelError, msg, fields) }

// Log writes at an explicit level.
func Log(level Level, msg string, fields map[string]any) { std.log(level, msg, fields) }

// InfoCtx and friends add the request id carried by ctx when the caller did
// not set one.
func InfoCtx(ctx context.Context, msg string, fields map[string]any) {
	std.log(LevelInfo, msg, withRequest(ctx, fields))
}

func WarnCtx(ctx context.Context, msg string, fields map[string]any) {
	std.log(LevelWarn, msg, withRequest(ctx, fields))
}

func ErrorCtx(ctx context.Context, msg string, fields map[string]any) {
	std.log(LevelError, msg, withRequest(ctx, fields))
}

func withRequest(ctx context.Context, fields map[string]any) map[string]any {
	id := RequestID(ctx)
	if id == "" {
		return fields
	}
	if _, ok := fields["request_id"]; ok {
		return fields
	}
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["request_id"] = id
	return out
}

func (s *sink) log(level Level, msg string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if level < s.min {
		return
	}

	entry := make(map[string]any, len(s.fixed)+len(fields)+3)
	for k, v := range s.fixed {
		entry[k] = v
	}
	for k, v := range fields {
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = s.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		data, _ = json.Marshal(map[string]any{
			"ts":    entry["ts"],
			"level": LevelError.String(),
			"msg":   "log.marshal_failed",
			"event": msg,
			"err":   err.Error(),
		})
	}
	_, _ = s.w.Write(append(data, '\n'))
}
