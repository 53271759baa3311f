package model

import "fmt"

// EventKind identifies one of the daily playback events.
type EventKind string

const (
	KindFajr    EventKind = "fajr"
	KindSunrise EventKind = "sunrise"
	KindDhuhr   EventKind = "dhuhr"
	KindAsr     EventKind = "asr"
	KindMaghrib EventKind = "maghrib"
	KindIsha    EventKind = "isha"
	// KindTest is triggered manually, never armed by the scheduler.
	KindTest EventKind = "test"
)

// Kinds is the canonical daily order. KindTest is excluded.
var Kinds = []EventKind{KindFajr, KindSunrise, KindDhuhr, KindAsr, KindMaghrib, KindIsha}

func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if k == KindTest {
		return k, nil
	}
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

// Schedulable reports whether the kind can appear in a timetable.
func (k EventKind) Schedulable() bool {
	return k != KindTest
}

// Status is the process-wide playback state.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusDownloading Status = "downloading"
	StatusPlaying     Status = "playing"
)
