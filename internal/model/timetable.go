package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrDataQuality marks a timetable whose times are missing or out of order.
var ErrDataQuality = errors.New("timetable failed data-quality check")

// TimeTable is one day's computed event instants from a single source.
// Immutable once produced by a provider.
type TimeTable struct {
	Day       time.Time               `json:"day"`
	Source    string                  `json:"source"`
	Method    string                  `json:"method"`
	HijriDate string                  `json:"hijri_date"`
	Times     map[EventKind]time.Time `json:"times"`
}

// Validate checks that every schedulable kind is present and that the
// instants are non-decreasing in canonical order.
func (t *TimeTable) Validate() error {
	var prev time.Time
	for i, kind := range Kinds {
		at, ok := t.Times[kind]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrDataQuality, kind)
		}
		if i > 0 && at.Before(prev) {
			return fmt.Errorf("%w: %s (%s) precedes previous event (%s)",
				ErrDataQuality, kind, at.Format("15:04"), prev.Format("15:04"))
		}
		prev = at
	}
	return nil
}
