package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLinesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	session := NewJSONLinesRecorder(buf).NewSession()
	session.now = func() time.Time {
		return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
	}

	require.NoError(t, session.Record(LogEntry{Type: EventLaunch, PID: 42, Command: []string{"sleep", "5"}, Background: true}))
	require.NoError(t, session.Record(LogEntry{Type: EventNotFound, Command: []string{"nope"}, ExitStatus: 127}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)

	var got []*LogEntry
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		got = append(got, le)
	}))
	require.Len(t, got, 2)

	assert.Equal(t, session.SessionID(), got[0].SessionID)
	assert.Equal(t, int64(1136171045000000), got[0].TimestampMicros)
	assert.Equal(t, EventLaunch, got[0].Type)
	assert.Equal(t, 42, got[0].PID)
	assert.True(t, got[0].Background)
	assert.Equal(t, 127, got[1].ExitStatus)
}

func TestNewSession_uniqueIDs(t *testing.T) {
	logger := NewNopLogger()
	a, b := logger.NewSession(), logger.NewSession()

	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader(`{"type": "launch"} not-json`), func(*LogEntry) {})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	assert.NoError(t, NewNopLogger().NewSession().Record(LogEntry{Type: EventKill}))
}

func TestReport(t *testing.T) {
	entries := []LogEntry{
		{SessionID: "a", Type: EventLaunch, Command: []string{"sleep"}, Background: true},
		{SessionID: "a", Type: EventLaunch, Command: []string{"ls"}},
		{SessionID: "a", Type: EventLaunch, Command: []string{"ls"}},
		{SessionID: "a", Type: EventFinish, Command: []string{"ls"}, ExitStatus: 0},
		{SessionID: "b", Type: EventKill, Command: []string{"yes"}},
		{SessionID: "b", Type: EventNotFound, Command: []string{"nope"}},
		{SessionID: "b", Type: EventBuiltin, Command: []string{"bookmark", "-l"}},
		{SessionID: "b", Type: EventError, Error: "fork failed"},
		{SessionID: "b", Type: "mystery"},
	}

	var report Report
	for i := range entries {
		report.Update(&entries[i])
	}

	assert.Equal(t, 9, report.LogEntries)
	assert.Equal(t, 3, report.Launch.Count)
	assert.Equal(t, 1, report.Launch.Background)
	assert.Equal(t, 2, report.Launch.Commands.Get("ls", "foreground"))
	assert.Equal(t, 1, report.Launch.Commands.Get("sleep", "background"))
	assert.Equal(t, 1, report.Finish.ExitStatuses.Get("0"))
	assert.Equal(t, 1, report.Kill.CommandNames.Get("yes"))
	assert.Equal(t, 1, report.NotFound.CommandNames.Get("nope"))
	assert.Equal(t, 1, report.Builtin.CommandNames.Get("bookmark"))
	assert.Equal(t, 1, report.Error.Messages.Get("fork failed"))
	assert.Equal(t, 1, report.InvalidEntries.Get("mystery"))
	assert.Equal(t, 5, report.Sessions.Get("b"))

	out, err := json.Marshal(report.Launch.Commands)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"count": 2, "event": {"command": "ls", "mode": "foreground"}},
		{"count": 1, "event": {"command": "sleep", "mode": "background"}}
	]`, string(out))
}

func TestStrCounter_MarshalJSON(t *testing.T) {
	var ctr StrCounter
	ctr.Increment("0")
	ctr.Increment("0")
	ctr.Increment("137")

	out, err := json.Marshal(ctr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"0": 2, "137": 1}`, string(out))
}

func TestPathCounter_wrongColumns(t *testing.T) {
	assert.Panics(t, func() {
		NewPathCounter("a", "b").Increment("only-one")
	})
}
