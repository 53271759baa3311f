package model

import "time"

// ScheduleEntry is one armed (or skipped) playback instant derived from a
// TimeTable plus the per-kind enable flag and the global offset.
type ScheduleEntry struct {
	Kind    EventKind     `json:"kind"`
	At      time.Time     `json:"at"`
	Enabled bool          `json:"enabled"`
	Offset  time.Duration `json:"-"`
}
