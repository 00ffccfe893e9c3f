package logger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// TimestampLayout is the fixed-width UTC layout of StructuredLog.Timestamp.
// Fixed width keeps persisted timestamps comparable as text.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LogLevel represents logging severity level
type LogLevel string

const (
	LogLevelDEBUG LogLevel = "DEBUG"
	LogLevelINFO  LogLevel = "INFO"
	LogLevelWARN  LogLevel = "WARN"
	LogLevelERROR LogLevel = "ERROR"
)

// EventCode represents structured event types
type EventCode string

const (
	EventAPIRequest      EventCode = "API_REQUEST"
	EventAPIResponse     EventCode = "API_RESPONSE"
	EventErrorDispatched EventCode = "ERROR_DISPATCHED"
	EventPanicRecovered  EventCode = "PANIC_RECOVERED"
	EventSystemStart     EventCode = "SYSTEM_START"
	EventSystemStop      EventCode = "SYSTEM_STOP"
	EventError           EventCode = "ERROR"
)

// StructuredLog is the persisted log record format
type StructuredLog struct {
	Timestamp      string                 `json:"timestamp"`
	Level          LogLevel               `json:"level"`
	ServiceID      string                 `json:"service_id"`
	InstanceID     string                 `json:"instance_id"`
	EventCode      EventCode              `json:"event_code"`
	Message        string                 `json:"message"`
	Details        map[string]interface{} `json:"details,omitempty"`
	RequestID      string                 `json:"request_id,omitempty"`
	Hostname       string                 `json:"hostname"`
	SourceLocation string                 `json:"source_location"`
}

// Logger writes structured logs to an io.Writer and, when a database is
// attached, to the access_logs table.
type Logger struct {
	mu         sync.Mutex
	out        io.Writer
	db         *sql.DB
	hostname   string
	serviceID  string
	instanceID string
	clock      clock.Clock
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// New creates a logger. db may be nil; out defaults to stdout.
func New(db *sql.DB, serviceID string, out io.Writer) *Logger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		out:        out,
		db:         db,
		hostname:   hostname,
		serviceID:  serviceID,
		instanceID: uuid.NewString(),
		clock:      clock.New(),
	}
}

// SetClock replaces the clock used to stamp records. nil is ignored.
func (l *Logger) SetClock(c clock.Clock) {
	if c == nil {
		return
	}
	l.mu.Lock()
	l.clock = c
	l.mu.Unlock()
}

func (l *Logger) now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clock.Now()
}

// InitLogger initializes the default logger
func InitLogger(db *sql.DB, serviceID string) *Logger {
	l := New(db, serviceID, nil)
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return l
}

// GetLogger returns the default logger, or a stdout-only one if InitLogger
// was never called.
func GetLogger() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(nil, "result-hub", nil)
	}
	return defaultLogger
}

// LogAPIRequest records an API request event
func (l *Logger) LogAPIRequest(requestID, method, path, userAgent, remoteAddr string) {
	details := map[string]interface{}{
		"method":      method,
		"path":        path,
		"user_agent":  userAgent,
		"remote_addr": remoteAddr,
	}
	l.log(LogLevelINFO, EventAPIRequest, requestID, fmt.Sprintf("API request: %s %s", method, path), details)
}

// LogAPIResponse records an API response event
func (l *Logger) LogAPIResponse(requestID, method, path string, statusCode int, responseTime time.Duration) {
	details := map[string]interface{}{
		"method":        method,
		"path":          path,
		"status_code":   statusCode,
		"response_time": responseTime.Milliseconds(),
	}
	l.log(levelForStatus(statusCode), EventAPIResponse, requestID,
		fmt.Sprintf("API response: %s %s [%d] (%dms)", method, path, statusCode, responseTime.Milliseconds()), details)
}

// LogDispatch records an error that was turned into a response. rawError is
// the unredacted error text and is logged in full even when the client sees less.
func (l *Logger) LogDispatch(requestID, requestContext, kind string, statusCode int, rawError string) {
	details := map[string]interface{}{
		"request_context": requestContext,
		"kind":            kind,
		"status_code":     statusCode,
	}
	if rawError != "" {
		details["error"] = rawError
	}
	l.log(levelForStatus(statusCode), EventErrorDispatched, requestID,
		fmt.Sprintf("Error dispatched: %s -> %d (%s)", requestContext, statusCode, kind), details)
}

// LogPanic records a recovered panic.
func (l *Logger) LogPanic(requestID string, recovered interface{}, stack []byte) {
	details := map[string]interface{}{
		"panic": fmt.Sprintf("%v", recovered),
		"stack": string(stack),
	}
	l.log(LogLevelERROR, EventPanicRecovered, requestID, "Panic recovered", details)
}

// LogError records an error event with optional error payload
func (l *Logger) LogError(message string, err error, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	if err != nil {
		details["error"] = err.Error()
	}
	l.log(LogLevelERROR, EventError, "", message, details)
}

func (l *Logger) Info(event EventCode, message string, details map[string]interface{}) {
	l.log(LogLevelINFO, event, "", message, details)
}

func (l *Logger) Warn(event EventCode, message string, details map[string]interface{}) {
	l.log(LogLevelWARN, event, "", message, details)
}

func levelForStatus(statusCode int) LogLevel {
	switch {
	case statusCode >= 500:
		return LogLevelERROR
	case statusCode >= 400:
		return LogLevelWARN
	}
	return LogLevelINFO
}

// log writes structured log to the writer and persists to DB
func (l *Logger) log(level LogLevel, eventCode EventCode, requestID, message string, details map[string]interface{}) {
	// Capture caller location
	_, file, line, ok := runtime.Caller(2)
	sourceLocation := "unknown"
	if ok {
		parts := strings.Split(file, "/")
		sourceLocation = fmt.Sprintf("%s:%d", parts[len(parts)-1], line)
	}

	entry := StructuredLog{
		Timestamp:      l.now().UTC().Format(TimestampLayout),
		Level:          level,
		ServiceID:      l.serviceID,
		InstanceID:     l.instanceID,
		EventCode:      eventCode,
		Message:        message,
		Details:        details,
		RequestID:      requestID,
		Hostname:       l.hostname,
		SourceLocation: sourceLocation,
	}

	logJSON, _ := json.Marshal(entry)
	l.mu.Lock()
	fmt.Fprintln(l.out, string(logJSON))
	l.mu.Unlock()

	l.saveToDatabase(entry)
}

// saveToDatabase persists a structured log into access_logs
func (l *Logger) saveToDatabase(entry StructuredLog) {
	if l.db == nil {
		return
	}

	detailsJSON, _ := json.Marshal(entry.Details)

	insertSQL := `
	INSERT INTO access_logs (
		timestamp, level, service_id, instance_id, event_code,
		message, details, request_id, hostname, source_location
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := l.db.Exec(insertSQL,
		entry.Timestamp,
		entry.Level,
		entry.ServiceID,
		entry.InstanceID,
		entry.EventCode,
		entry.Message,
		string(detailsJSON),
		entry.RequestID,
		entry.Hostname,
		entry.SourceLocation,
	)
	if err != nil {
		l.mu.Lock()
		fmt.Fprintf(l.out, "Failed to save log to database: %v\n", err)
		l.mu.Unlock()
	}
}

// GetAccessLogs loads recent logs with pagination
func (l *Logger) GetAccessLogs(limit int, offset int) ([]StructuredLog, error) {
	if l.db == nil {
		return nil, nil
	}

	querySQL := `
	SELECT timestamp, level, service_id, instance_id, event_code,
	       message, details, request_id, hostname, source_location
	FROM access_logs
	ORDER BY id DESC
	LIMIT ? OFFSET ?
	`

	rows, err := l.db.Query(querySQL, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []StructuredLog
	for rows.Next() {
		var rec StructuredLog
		var detailsJSON string

		if err := rows.Scan(
			&rec.Timestamp,
			&rec.Level,
			&rec.ServiceID,
			&rec.InstanceID,
			&rec.EventCode,
			&rec.Message,
			&detailsJSON,
			&rec.RequestID,
			&rec.Hostname,
			&rec.SourceLocation,
		); err != nil {
			return nil, err
		}

		if detailsJSON != "" {
			_ = json.Unmarshal([]byte(detailsJSON), &rec.Details)
		}
		logs = append(logs, rec)
	}
	return logs, rows.Err()
}
