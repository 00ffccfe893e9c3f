package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "result-hub/internal/domain/errors"
)

// maxBodyBytes bounds request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

// Pagination holds parsed pagination params.
type Pagination struct {
	Page  int
	Limit int
}

// Offset is the row offset for Page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// ParsePagination parses page/limit from query with defaults and bounds.
// Defaults: page=1, limit=defaultLimit. A limit above maxLimit is clamped.
func ParsePagination(q url.Values, defaultLimit, maxLimit int) (Pagination, error) {
	page := 1
	limit := defaultLimit

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Pagination{}, domainerrors.InvalidInput("page must be a positive integer")
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Pagination{}, domainerrors.InvalidInput("limit must be a positive integer")
		}
		limit = n
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if page-1 > math.MaxInt/limit {
		return Pagination{}, domainerrors.InvalidInput("page is out of range")
	}
	return Pagination{Page: page, Limit: limit}, nil
}

// ParseID parses a positive integer path parameter.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.InvalidInput(fmt.Sprintf("invalid id %q: must be a positive integer", raw))
	}
	return id, nil
}

// ParseBool parses an optional boolean query flag. Empty means false.
func ParseBool(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, domainerrors.InvalidInput(fmt.Sprintf("%s must be true or false", key))
	}
	return b, nil
}

// ParseSince reads an RFC 3339 "since" query value. When absent it returns
// now minus fallback.
func ParseSince(q url.Values, now time.Time, fallback time.Duration) (time.Time, error) {
	v := q.Get("since")
	if v == "" {
		return now.Add(-fallback), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, domainerrors.InvalidInput("since must be an RFC 3339 timestamp")
	}
	return t, nil
}

// DecodeJSON decodes a single JSON object from body into dst. Unknown fields
// and trailing data are rejected.
func DecodeJSON(body io.Reader, dst interface{}) error {
	if body == nil {
		return domainerrors.InvalidInput("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domainerrors.InvalidInput("request body is required")
		}
		return domainerrors.Wrap(domainerrors.KindInvalidInput, err, "invalid request body")
	}
	if dec.More() {
		return domainerrors.InvalidInput("request body must contain a single JSON object")
	}
	return nil
}
