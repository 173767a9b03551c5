package services

import (
	"errors"
	"strings"
	"time"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// timestampLayouts are the ISO-8601 forms accepted on the service boundary.
// Layouts without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp, returning a *model.ParseError on failure
func ParseTimestamp(field, value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, &model.ParseError{Field: field, Value: value, Err: errors.New("empty timestamp")}
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, &model.ParseError{Field: field, Value: value, Err: lastErr}
}

// parseWindow parses both window bounds
func parseWindow(fromTS, toTS string) (time.Time, time.Time, error) {
	from, err := ParseTimestamp("from", fromTS)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseTimestamp("to", toTS)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
