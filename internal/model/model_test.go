package model

import (
	"errors"
	"testing"
	"time"
)

func tableAt(times map[EventKind]string) *TimeTable {
	day := time.Date(2025, 8, 5, 0, 0, 0, 0, time.Local)
	t := &TimeTable{Day: day, Source: SourceAlAdhan, Times: make(map[EventKind]time.Time)}
	for kind, clock := range times {
		parsed, _ := time.Parse("15:04", clock)
		t.Times[kind] = time.Date(day.Year(), day.Month(), day.Day(),
			parsed.Hour(), parsed.Minute(), 0, 0, day.Location())
	}
	return t
}

func TestValidateAcceptsOrderedTable(t *testing.T) {
	table := tableAt(map[EventKind]string{
		KindFajr: "05:00", KindSunrise: "06:30", KindDhuhr: "12:10",
		KindAsr: "15:45", KindMaghrib: "18:20", KindIsha: "19:50",
	})
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsMissingKind(t *testing.T) {
	table := tableAt(map[EventKind]string{
		KindFajr: "05:00", KindSunrise: "06:30", KindDhuhr: "12:10",
		KindAsr: "15:45", KindMaghrib: "18:20",
	})
	if err := table.Validate(); !errors.Is(err, ErrDataQuality) {
		t.Fatalf("error = %v, want ErrDataQuality", err)
	}
}

func TestValidateRejectsOutOfOrderTimes(t *testing.T) {
	table := tableAt(map[EventKind]string{
		KindFajr: "05:00", KindSunrise: "06:30", KindDhuhr: "12:10",
		KindAsr: "11:45", KindMaghrib: "18:20", KindIsha: "19:50",
	})
	if err := table.Validate(); !errors.Is(err, ErrDataQuality) {
		t.Fatalf("error = %v, want ErrDataQuality", err)
	}
}

func TestParseEventKind(t *testing.T) {
	for _, kind := range append(Kinds, KindTest) {
		parsed, err := ParseEventKind(string(kind))
		if err != nil || parsed != kind {
			t.Errorf("ParseEventKind(%s) = %s, %v", kind, parsed, err)
		}
	}
	if _, err := ParseEventKind("brunch"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if KindTest.Schedulable() {
		t.Error("test kind must never be schedulable")
	}
}

func TestAssetForFajrOverride(t *testing.T) {
	s := Settings{AzanURL: "http://a/azan.mp3"}

	id, url := s.AssetFor(KindFajr)
	if id != AssetPrimary || url != "http://a/azan.mp3" {
		t.Errorf("without override: %s %s", id, url)
	}

	fajrURL := "http://a/fajr.mp3"
	s.FajrAzanURL = &fajrURL
	id, url = s.AssetFor(KindFajr)
	if id != AssetFajr || url != fajrURL {
		t.Errorf("with override: %s %s", id, url)
	}

	// other kinds keep the primary asset
	id, _ = s.AssetFor(KindDhuhr)
	if id != AssetPrimary {
		t.Errorf("dhuhr asset = %s", id)
	}
}
