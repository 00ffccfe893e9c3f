package database

import (
	"fmt"
	"time"

	"result-hub/internal/logger"
)

// ErrorKindStat counts dispatched errors for one kind/status pair.
type ErrorKindStat struct {
	Kind       string `json:"kind"`
	StatusCode int    `json:"statusCode"`
	Count      int64  `json:"count"`
}

// ErrorKindStats aggregates ERROR_DISPATCHED access log rows written at or
// after since, most frequent first. Rows are compared as text, so since is
// formatted with the logger's fixed-width layout.
func (d *Database) ErrorKindStats(since time.Time) ([]ErrorKindStat, error) {
	query := `
	SELECT
		COALESCE(json_extract(details, '$.kind'), 'UNKNOWN') AS kind,
		COALESCE(json_extract(details, '$.status_code'), 0) AS status_code,
		COUNT(*) AS cnt
	FROM access_logs
	WHERE event_code = 'ERROR_DISPATCHED' AND timestamp >= ?
	GROUP BY kind, status_code
	ORDER BY cnt DESC, kind ASC
	`

	rows, err := d.db.Query(query, since.UTC().Format(logger.TimestampLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query error stats: %w", err)
	}
	defer rows.Close()

	stats := []ErrorKindStat{}
	for rows.Next() {
		var s ErrorKindStat
		if err := rows.Scan(&s.Kind, &s.StatusCode, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan error stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
