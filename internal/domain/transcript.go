package domain

import "time"

// TranscriptEntry is one user/assistant exchange.
type TranscriptEntry struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Timestamp time.Time `json:"timestamp"`
}
