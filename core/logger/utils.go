package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names what happened to a command.
type EventType string

const (
	EventLaunch   EventType = "launch"
	EventFinish   EventType = "finish"
	EventKill     EventType = "kill"
	EventNotFound EventType = "not_found"
	EventBuiltin  EventType = "builtin"
	EventError    EventType = "error"
)

// LogEntry is a single recorded event.
type LogEntry struct {
	TimestampMicros int64     `json:"timestamp_micros"`
	SessionID       string    `json:"session_id"`
	Type            EventType `json:"type"`
	PID             int       `json:"pid,omitempty"`
	Command         []string  `json:"command,omitempty"`
	Background      bool      `json:"background,omitempty"`
	ExitStatus      int       `json:"exit_status,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures job events.
type Logger struct {
	Record LogRecorder
}

// NewJSONLinesRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops all events.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{
		Logger:    l,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
	now       func() time.Time
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record stamps the event with the time and session and stores it.
func (l *SessionLogger) Record(event LogEntry) error {
	event.TimestampMicros = l.now().UnixMicro()
	event.SessionID = l.sessionID
	return l.Logger.Record(&event)
}
