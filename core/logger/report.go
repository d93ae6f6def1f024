package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
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
	Sessions       StrCounter `json:"sessions"`

	Launch   LaunchReport   `json:"launch_report"`
	Finish   FinishReport   `json:"finish_report"`
	Kill     KillReport     `json:"kill_report"`
	NotFound NotFoundReport `json:"not_found_report"`
	Builtin  BuiltinReport  `json:"builtin_report"`
	Error    ErrorReport    `json:"error_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	r.Sessions.Increment(le.SessionID)

	switch le.Type {
	case EventLaunch:
		r.Launch.update(le)
	case EventFinish:
		r.Finish.update(le)
	case EventKill:
		r.Kill.update(le)
	case EventNotFound:
		r.NotFound.update(le)
	case EventBuiltin:
		r.Builtin.update(le)
	case EventError:
		r.Error.update(le)
	default:
		r.InvalidEntries.Increment(string(le.Type))
	}
}

type LaunchReport struct {
	Count      int          `json:"count"`
	Background int          `json:"background"`
	Commands   *PathCounter `json:"commands"`
}

func (r *LaunchReport) update(le *LogEntry) {
	r.Count++
	if le.Background {
		r.Background++
	}
	if r.Commands == nil {
		r.Commands = NewPathCounter("command", "mode")
	}
	mode := "foreground"
	if le.Background {
		mode = "background"
	}
	r.Commands.Increment(commandName(le), mode)
}

type FinishReport struct {
	ExitStatuses StrCounter `json:"exit_statuses"`
}

func (r *FinishReport) update(le *LogEntry) {
	r.ExitStatuses.Increment(strconv.Itoa(le.ExitStatus))
}

type KillReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *KillReport) update(le *LogEntry) {
	r.CommandNames.Increment(commandName(le))
}

type NotFoundReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *NotFoundReport) update(le *LogEntry) {
	r.CommandNames.Increment(commandName(le))
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(le *LogEntry) {
	r.CommandNames.Increment(commandName(le))
}

type ErrorReport struct {
	Messages StrCounter `json:"messages"`
}

func (r *ErrorReport) update(le *LogEntry) {
	r.Messages.Increment(le.Error)
}

func commandName(le *LogEntry) string {
	if len(le.Command) > 0 {
		return le.Command[0]
	}
	return ""
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

// Get returns the count for the key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of multi-column keys seen.
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

// Get returns the count for the key.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
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
