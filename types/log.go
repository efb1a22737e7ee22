package types

import "time"

// LogEntry is an HTTP exchange queued for the logs table
type LogEntry struct {
	RequestID       string
	Method          string
	URL             string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	Duration        time.Duration
	CreatedAt       time.Time
}
