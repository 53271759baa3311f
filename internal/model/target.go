package model

import "time"

// TargetKind selects the playback backend for a device.
type TargetKind string

const (
	// TargetCast sends a play-media command with a reachable URL.
	TargetCast TargetKind = "cast"
	// TargetWakeLaunch wakes the device first, then launches a player.
	TargetWakeLaunch TargetKind = "wake_launch"
)

// Target represents a playback device in the system.
type Target struct {
	ID        int        `db:"id"         json:"id"`
	DeviceID  *string    `db:"device_id"  json:"device_id"`
	Name      string     `db:"name"       json:"name"`
	Kind      TargetKind `db:"kind"       json:"kind"`
	Location  *string    `db:"location"   json:"location"`
	Paired    bool       `db:"paired"     json:"paired"`
	CreatedBy int        `db:"created_by" json:"created_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
