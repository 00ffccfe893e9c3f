package logger_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"result-hub/internal/database"
	"result-hub/internal/logger"
)

func TestLogDispatch_WritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(nil, "svc", &buf)

	l.LogDispatch("req-1", "GET /api/v1/roles/9", "RESOURCE_NOT_FOUND", 404, "role 9 not found")

	var entry logger.StructuredLog
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not one JSON record: %v\n%s", err, buf.String())
	}
	if entry.EventCode != logger.EventErrorDispatched || entry.Level != logger.LogLevelWARN {
		t.Fatalf("entry=%+v", entry)
	}
	if entry.RequestID != "req-1" || entry.ServiceID != "svc" || entry.InstanceID == "" {
		t.Fatalf("ids not set: %+v", entry)
	}
	if entry.Details["kind"] != "RESOURCE_NOT_FOUND" || entry.Details["error"] != "role 9 not found" {
		t.Fatalf("details=%v", entry.Details)
	}
	if !strings.HasPrefix(entry.SourceLocation, "logger_test.go:") {
		t.Fatalf("source location=%q", entry.SourceLocation)
	}
}

func TestLogAPIResponse_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		want   logger.LogLevel
	}{
		{200, logger.LogLevelINFO},
		{409, logger.LogLevelWARN},
		{500, logger.LogLevelERROR},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger.New(nil, "svc", &buf).LogAPIResponse("", "GET", "/", tt.status, time.Millisecond)
		var entry logger.StructuredLog
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if entry.Level != tt.want {
			t.Fatalf("status %d level=%s want %s", tt.status, entry.Level, tt.want)
		}
	}
}

func TestPersistedLogsAndErrorStats(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "logs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	l := logger.New(db.GetDB(), "svc", &bytes.Buffer{})
	l.LogDispatch("a", "GET /x", "RESOURCE_NOT_FOUND", 404, "")
	l.LogDispatch("b", "GET /y", "RESOURCE_NOT_FOUND", 404, "")
	l.LogDispatch("c", "POST /z", "UNCLASSIFIED", 500, "npe")
	l.Info(logger.EventSystemStart, "started", nil)

	logs, err := l.GetAccessLogs(10, 0)
	if err != nil {
		t.Fatalf("GetAccessLogs: %v", err)
	}
	if len(logs) != 4 || logs[0].EventCode != logger.EventSystemStart {
		t.Fatalf("logs=%+v", logs)
	}
	page, err := l.GetAccessLogs(2, 2)
	if err != nil || len(page) != 2 || page[1].RequestID != "a" {
		t.Fatalf("second page=%+v err=%v", page, err)
	}

	stats, err := db.ErrorKindStats(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ErrorKindStats: %v", err)
	}
	want := []database.ErrorKindStat{
		{Kind: "RESOURCE_NOT_FOUND", StatusCode: 404, Count: 2},
		{Kind: "UNCLASSIFIED", StatusCode: 500, Count: 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("stats=%+v want %+v", stats, want)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Fatalf("stats[%d]=%+v want %+v", i, stats[i], want[i])
		}
	}

	future, err := db.ErrorKindStats(time.Now().Add(time.Hour))
	if err != nil || len(future) != 0 {
		t.Fatalf("future window=%+v err=%v", future, err)
	}
}

func TestErrorStats_SubSecondBoundary(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "boundary.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	since := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	clk := clock.NewMock()
	l := logger.New(db.GetDB(), "svc", &bytes.Buffer{})
	l.SetClock(clk)

	clk.Set(since.Add(-100 * time.Millisecond))
	l.LogDispatch("before", "GET /a", "RESOURCE_NOT_FOUND", 404, "")
	clk.Set(since)
	l.LogDispatch("at", "GET /b", "RESOURCE_NOT_FOUND", 404, "")
	clk.Set(since.Add(500 * time.Millisecond))
	l.LogDispatch("after", "GET /c", "RESOURCE_NOT_FOUND", 404, "")

	stats, err := db.ErrorKindStats(since)
	if err != nil {
		t.Fatalf("ErrorKindStats: %v", err)
	}
	if len(stats) != 1 || stats[0].Count != 2 {
		t.Fatalf("stats=%+v want 2 rows at or after %s", stats, since)
	}

	stats, err = db.ErrorKindStats(since.Add(time.Millisecond))
	if err != nil {
		t.Fatalf("ErrorKindStats: %v", err)
	}
	if len(stats) != 1 || stats[0].Count != 1 {
		t.Fatalf("stats=%+v want only the row 500ms after since", stats)
	}

	logs, err := l.GetAccessLogs(1, 0)
	if err != nil || len(logs) != 1 {
		t.Fatalf("GetAccessLogs: %v %v", logs, err)
	}
	if logs[0].Timestamp != "2026-01-01T10:00:00.500000000Z" {
		t.Fatalf("timestamp=%q want fixed-width layout", logs[0].Timestamp)
	}
}

func TestGetLoggerWithoutInit(t *testing.T) {
	if logger.GetLogger() == nil {
		t.Fatalf("GetLogger returned nil")
	}
}
