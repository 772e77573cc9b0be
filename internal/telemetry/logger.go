package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JSONLogger writes one JSON object per line, each tagged with the
// presentation session it belongs to.
type JSONLogger struct {
	mu      sync.Mutex
	w       io.WriteCloser
	session string
	now     func() time.Time
}

// NewJSONLogger opens path for writing. An empty path discards every entry.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if path == "" {
		return NewWriterLogger(io.Discard), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONLogger{w: f, session: uuid.NewString(), now: time.Now}, nil
}

func NewWriterLogger(w io.Writer) *JSONLogger {
	return &JSONLogger{w: nopCloser{Writer: w}, session: uuid.NewString(), now: time.Now}
}

func (l *JSONLogger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	l.log("debug", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log("error", msg, fields)
}

func (l *JSONLogger) log(level, msg string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	entry["session"] = l.session
	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"level": "error", "msg": "telemetry.marshal_failed", "session": l.session, "error": err.Error()})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
