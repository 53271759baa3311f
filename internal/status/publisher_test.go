package status

import (
	"context"
	"testing"
	"time"

	"github.com/hassaan22/minaret/internal/assets"
	"github.com/hassaan22/minaret/internal/model"
	"github.com/hassaan22/minaret/internal/scheduler"
)

type staticProvider struct {
	table *model.TimeTable
}

func (p staticProvider) Fetch(ctx context.Context, day time.Time) (*model.TimeTable, error) {
	return p.table, nil
}

func testTable(day time.Time) *model.TimeTable {
	at := func(h, m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
	}
	return &model.TimeTable{
		Day:       day,
		Source:    model.SourceAlAdhan,
		HijriDate: "11 Safar 1447",
		Times: map[model.EventKind]time.Time{
			model.KindFajr:    at(5, 0),
			model.KindSunrise: at(6, 30),
			model.KindDhuhr:   at(12, 10),
			model.KindAsr:     at(15, 45),
			model.KindMaghrib: at(18, 20),
			model.KindIsha:    at(19, 50),
		},
	}
}

func TestSnapshotProjectsNextEntry(t *testing.T) {
	now := time.Date(2025, 8, 5, 14, 0, 0, 0, time.Local)
	day := time.Date(2025, 8, 5, 0, 0, 0, 0, time.Local)

	sched := scheduler.New(scheduler.Config{
		Provider: staticProvider{table: testTable(day)},
		Cache:    assets.NewCache(t.TempDir(), assets.NewHTTPFetcher(), nil),
		Settings: model.Settings{
			FajrEnabled: true, DhuhrEnabled: true, AsrEnabled: true,
			MaghribEnabled: true, IshaEnabled: true,
		},
		Now: func() time.Time { return now },
	})
	t.Cleanup(sched.Shutdown)
	if err := sched.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	pub := NewPublisher(sched)
	pub.nowFn = func() time.Time { return now }

	snap := pub.Snapshot()

	if snap.Status != model.StatusIdle {
		t.Errorf("status = %s, want idle", snap.Status)
	}
	if snap.Day != "2025-08-05" {
		t.Errorf("day = %s", snap.Day)
	}
	if snap.HijriDate != "11 Safar 1447" {
		t.Errorf("hijri = %s", snap.HijriDate)
	}
	if snap.NextKind != model.KindAsr {
		t.Errorf("next kind = %s, want asr", snap.NextKind)
	}
	// 14:00 -> 15:45 is 105 minutes
	if snap.CountdownSeconds != 105*60 {
		t.Errorf("countdown = %d, want %d", snap.CountdownSeconds, 105*60)
	}
	if snap.Enabled[model.KindSunrise] {
		t.Error("sunrise should be disabled")
	}
	if snap.Playing != nil {
		t.Error("no session should be playing")
	}
}

func TestSnapshotBeforeFirstRefresh(t *testing.T) {
	sched := scheduler.New(scheduler.Config{
		Cache: assets.NewCache(t.TempDir(), assets.NewHTTPFetcher(), nil),
	})
	t.Cleanup(sched.Shutdown)

	snap := NewPublisher(sched).Snapshot()
	if snap.Status != model.StatusIdle || snap.Day != "" || snap.NextKind != "" {
		t.Errorf("empty scheduler produced %+v", snap)
	}
	if snap.CountdownSeconds != 0 {
		t.Errorf("countdown = %d, want 0", snap.CountdownSeconds)
	}
}
