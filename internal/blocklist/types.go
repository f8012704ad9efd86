package blocklist

import "time"

// Scope limits a blocklist check to one movie or one series.
// The zero value matches only unscoped (global) entries.
type Scope struct {
	MovieID  int64 `json:"movieId,omitempty"`
	SeriesID int64 `json:"seriesId,omitempty"`
}

// Verdict is the outcome of a blocklist check.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// Entry is a blocklisted release record.
type Entry struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title,omitempty"`
	InfoHash  string     `json:"infoHash,omitempty"`
	IndexerID int64      `json:"indexerId,omitempty"`
	MovieID   int64      `json:"movieId,omitempty"`
	SeriesID  int64      `json:"seriesId,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// AddInput is the payload for creating a blocklist entry.
type AddInput struct {
	Title     string
	InfoHash  string
	IndexerID int64
	MovieID   int64
	SeriesID  int64
	Reason    string
	ExpiresAt *time.Time
}
