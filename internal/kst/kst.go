// Package kst renders and parses civil timestamps in Korean Standard Time.
// Every instant the API emits is formatted with an explicit +09:00 offset,
// regardless of how the database stores it.
package kst

import (
	"strings"
	"time"
)

// Zone is the fixed UTC+9 offset used for all rendered timestamps.
var Zone = time.FixedZone("KST", 9*60*60)

const (
	civilLayout  = "2006-01-02T15:04:05"
	offsetLayout = "2006-01-02T15:04:05-07:00"
	dateLayout   = "2006-01-02"
)

// Format renders t as an ISO 8601 string in KST, e.g. 2026-02-13T12:30:00+09:00.
func Format(t time.Time) string {
	return t.In(Zone).Format(offsetLayout)
}

// FormatPtr renders t if non-nil, otherwise returns nil. Used for nullable columns.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// Parse reads a timestamp, interpreting a missing offset as KST.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(offsetLayout, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(civilLayout, s, Zone)
}

// ParseDate reads a YYYY-MM-DD string as the start of that calendar day in KST.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), Zone)
}
