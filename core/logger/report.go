package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`
	Sessions       int        `json:"sessions"`

	RunCommand RunCommandReport `json:"run_command_report"`
	Builtin    BuiltinReport    `json:"builtin_report"`
	Errors     *PathCounter     `json:"errors"`

	sessions map[string]bool
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		Errors:   NewPathCounter("type", "command", "error"),
		sessions: make(map[string]bool),
	}
}

// Update adds the entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	if le.SessionID != "" && !r.sessions[le.SessionID] {
		r.sessions[le.SessionID] = true
		r.Sessions++
	}

	switch le.Type {
	case EventRunCommand:
		r.RunCommand.update(le)
	case EventBuiltin:
		r.Builtin.update(le)
	case EventSpawnError, EventWaitError, EventSyntaxError, EventLineTooLong, EventConfigError:
		r.Errors.Increment(string(le.Type), commandName(le), le.Error)
	case EventSessionStart:
		// Ignore
	default:
		r.InvalidEntries.Increment(string(le.Type))
	}
}

type RunCommandReport struct {
	// Name of the program
	CommandNames StrCounter `json:"command_names"`
	// Exit status of the program
	ExitStatuses StrCounter `json:"exit_statuses"`
	// Directory the program ran in
	Dirs StrCounter `json:"dirs"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(commandName(le))
	if le.ExitStatus != nil {
		r.ExitStatuses.Increment(strconv.Itoa(*le.ExitStatus))
	}
	if le.Dir != "" {
		r.Dirs.Increment(le.Dir)
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(le *LogEntry) {
	r.CommandNames.Increment(commandName(le))
}

func commandName(le *LogEntry) string {
	if len(le.Command) > 0 {
		return le.Command[0]
	}
	return ""
}

// SessionReport holds the commands of each session in the order they ran.
type SessionReport struct {
	// Map of sessionID -> commands
	sessions map[string][]string
}

func (s *SessionReport) init() {
	if s.sessions == nil {
		s.sessions = make(map[string][]string)
	}
}

// MarshalJSON implemnts custom JSON marshaler.
func (s *SessionReport) MarshalJSON() ([]byte, error) {
	s.init()

	return json.Marshal(s.sessions)
}

// Update adds commands run or handled by the shell to their session.
func (s *SessionReport) Update(le *LogEntry) {
	s.init()

	if le.SessionID == "" {
		return
	}
	switch le.Type {
	case EventRunCommand, EventBuiltin, EventSpawnError:
		s.sessions[le.SessionID] = append(s.sessions[le.SessionID], strings.Join(le.Command, " "))
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count returns the number of times key was seen.
func (s *StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of times each combination of column values
// was seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
