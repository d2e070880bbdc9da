package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// EventType identifies the kind of a LogEntry.
type EventType string

const (
	// EventSessionStart is logged once the shell is ready to read commands.
	EventSessionStart EventType = "session_start"
	// EventBuiltin is logged when the shell handles a command itself.
	EventBuiltin EventType = "builtin"
	// EventRunCommand is logged when a child process exits.
	EventRunCommand EventType = "run_command"
	// EventSpawnError is logged when a child process couldn't be created.
	EventSpawnError EventType = "spawn_error"
	// EventWaitError is logged when waiting on a child failed.
	EventWaitError EventType = "wait_error"
	// EventSyntaxError is logged when a line couldn't be split into arguments.
	EventSyntaxError EventType = "syntax_error"
	// EventLineTooLong is logged when a line was rejected for its length.
	EventLineTooLong EventType = "line_too_long"
	// EventConfigError is logged for environment setup failures.
	EventConfigError EventType = "config_error"
)

// LogEntry is a single event.
type LogEntry struct {
	TimestampMicros int64     `json:"timestamp_micros"`
	SessionID       string    `json:"session_id,omitempty"`
	Type            EventType `json:"type"`
	// PID of the process that handled the command.
	PID int `json:"pid,omitempty"`
	// Command holds the argument vector.
	Command []string `json:"command,omitempty"`
	// Dir is the working directory the command ran in.
	Dir        string `json:"dir,omitempty"`
	ExitStatus *int   `json:"exit_status,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures command events for later inspection.
type Logger struct {
	Record LogRecorder
	// Now is the time source for timestamps.
	Now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
		Now: time.Now,
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
		Now:    time.Now,
	}
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record stamps the event with the time and session then stores it.
func (l *SessionLogger) Record(event *LogEntry) error {
	event.TimestampMicros = l.Now().UnixMicro()
	event.SessionID = l.sessionID
	return l.Logger.Record(event)
}

// Status returns a pointer to status for use in LogEntry.ExitStatus.
func Status(status int) *int {
	return &status
}
