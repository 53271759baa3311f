package model

import "time"

// SessionState is the terminal-or-active state of one playback attempt.
type SessionState string

const (
	SessionActive  SessionState = "active"
	SessionStopped SessionState = "stopped"
	SessionDone    SessionState = "done"
	SessionFailed  SessionState = "failed"
)

// PlaybackSession is one playback attempt through a backend. At most one
// session is active at a time; a new trigger preempts the active one.
type PlaybackSession struct {
	ID        string       `db:"id"         json:"id"`
	Kind      EventKind    `db:"kind"       json:"kind"`
	AssetID   string       `db:"asset_id"   json:"asset_id"`
	TargetID  int          `db:"target_id"  json:"target_id"`
	State     SessionState `db:"state"      json:"state"`
	StartedAt time.Time    `db:"started_at" json:"started_at"`
	EndedAt   *time.Time   `db:"ended_at"   json:"ended_at,omitempty"`
	Error     *string      `db:"error"      json:"error,omitempty"`
}
