package status

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/model"
	redisclient "github.com/hassaan22/minaret/internal/redis"
	"github.com/hassaan22/minaret/internal/scheduler"
)

// redis key automation consumers poll for the latest snapshot.
const redisStatusKey = "minaret:status"

// Snapshot is the machine-readable read-only surface exposed to the
// dashboard and automation layer. Countdown is recomputed on every read.
type Snapshot struct {
	Status           model.Status                 `json:"status"`
	Day              string                       `json:"day,omitempty"`
	HijriDate        string                       `json:"hijri_date,omitempty"`
	Source           string                       `json:"source,omitempty"`
	Times            map[model.EventKind]string   `json:"times,omitempty"`
	Enabled          map[model.EventKind]bool     `json:"enabled,omitempty"`
	NextKind         model.EventKind              `json:"next_kind,omitempty"`
	NextAt           string                       `json:"next_at,omitempty"`
	CountdownSeconds int64                        `json:"countdown_seconds"`
	Playing          *model.PlaybackSession       `json:"playing,omitempty"`
}

// Publisher is a pure read projection over the scheduler; it has no
// mutation capability.
type Publisher struct {
	sched *scheduler.Scheduler
	nowFn func() time.Time
}

func NewPublisher(sched *scheduler.Scheduler) *Publisher {
	return &Publisher{sched: sched, nowFn: time.Now}
}

// Snapshot projects the current scheduler state.
func (p *Publisher) Snapshot() Snapshot {
	now := p.nowFn()
	snap := p.sched.Snapshot()

	out := Snapshot{
		Status:  snap.Status,
		Times:   make(map[model.EventKind]string),
		Enabled: make(map[model.EventKind]bool),
		Playing: snap.Active,
	}

	if snap.Table != nil {
		out.Day = snap.Table.Day.Format("2006-01-02")
		out.HijriDate = snap.Table.HijriDate
		out.Source = snap.Table.Source
	}

	for _, entry := range snap.Entries {
		out.Times[entry.Kind] = entry.At.Format(time.RFC3339)
		out.Enabled[entry.Kind] = entry.Enabled
	}

	if next, ok := nextEntry(snap.Entries, now); ok {
		out.NextKind = next.Kind
		out.NextAt = next.At.Format(time.RFC3339)
		out.CountdownSeconds = int64(next.At.Sub(now).Seconds())
	}
	return out
}

// Timetable returns the currently loaded day table, or nil before the
// first successful refresh. Times are the raw source times without offsets.
func (p *Publisher) Timetable() *model.TimeTable {
	return p.sched.Snapshot().Table
}

// PushStatus writes the snapshot to Redis on every status transition;
// registered as the scheduler's OnStatus hook.
func (p *Publisher) PushStatus(model.Status) {
	if redisclient.Rdb == nil {
		return
	}
	payload, err := json.Marshal(p.Snapshot())
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal status snapshot")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisclient.Set(ctx, redisStatusKey, payload, 0)
}

// nextEntry returns the earliest enabled future entry.
func nextEntry(entries []model.ScheduleEntry, now time.Time) (model.ScheduleEntry, bool) {
	var best model.ScheduleEntry
	found := false
	for _, e := range entries {
		if !e.Enabled || !e.At.After(now) {
			continue
		}
		if !found || e.At.Before(best.At) {
			best = e
			found = true
		}
	}
	return best, found
}
