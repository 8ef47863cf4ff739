package cache

import (
	"context"
	"time"
)

const (
	// StatusTTL is how long a polling client can read a status.
	StatusTTL = 3 * 24 * time.Hour

	StatusQueued = "queued"
)

// Status is the record a polling client reads for a webmention token.
type Status struct {
	Status  string         `json:"status"`
	Source  string         `json:"source"`
	Target  string         `json:"target"`
	Summary string         `json:"summary,omitempty"`
	Private *bool          `json:"private,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// StatusCache is the transient store for webmention progress and the
// per-protocol result statistics.
type StatusCache interface {
	// SetStatus overwrites the status of token.
	SetStatus(ctx context.Context, token string, status *Status) error
	// GetStatus reads the status of token, nil when expired or unknown.
	GetStatus(ctx context.Context, token string) (*Status, error)
	// CountStat records token under the protocol/result statistic.
	CountStat(ctx context.Context, token, protocol, result string) error
	// TrimStats drops statistic entries recorded before t.
	TrimStats(ctx context.Context, before time.Time) (int64, error)
}

func statusKey(token string) string {
	return "webmention:status:" + token
}

func statsKey(protocol, result string) string {
	return statsPrefix + protocol + ":" + result
}

const statsPrefix = "webmention.io:stats:"
