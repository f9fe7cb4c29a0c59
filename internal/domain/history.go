package domain

import "time"

// HistoryRecord is one persisted dispatch outcome.
type HistoryRecord struct {
	RequestID  string    `json:"request_id"`
	Timestamp  time.Time `json:"timestamp"`
	Route      string    `json:"route"`
	Language   string    `json:"language"`
	Command    string    `json:"command"`
	Blocked    bool      `json:"blocked"`
	Success    bool      `json:"success"`
	DurationMS int64     `json:"duration_ms"`
}
