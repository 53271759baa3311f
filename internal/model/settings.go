package model

import "time"

// Timetable source selection.
const (
	SourceAlAdhan = "aladhan"
	SourcePortal  = "portal"
)

// Settings is the singleton persisted configuration row. Every field
// survives a process restart.
type Settings struct {
	ID            int     `db:"id"             json:"-"`
	Source        string  `db:"source"         json:"source"`
	Method        int     `db:"method"         json:"method"`
	Latitude      float64 `db:"latitude"       json:"latitude"`
	Longitude     float64 `db:"longitude"      json:"longitude"`
	City          string  `db:"city"           json:"city"`
	PortalURL     *string `db:"portal_url"     json:"portal_url,omitempty"`
	OffsetMinutes int     `db:"offset_minutes" json:"offset_minutes"`

	FajrEnabled    bool `db:"fajr_enabled"    json:"fajr_enabled"`
	SunriseEnabled bool `db:"sunrise_enabled" json:"sunrise_enabled"`
	DhuhrEnabled   bool `db:"dhuhr_enabled"   json:"dhuhr_enabled"`
	AsrEnabled     bool `db:"asr_enabled"     json:"asr_enabled"`
	MaghribEnabled bool `db:"maghrib_enabled" json:"maghrib_enabled"`
	IshaEnabled    bool `db:"isha_enabled"    json:"isha_enabled"`

	AzanURL     string  `db:"azan_url"      json:"azan_url"`
	FajrAzanURL *string `db:"fajr_azan_url" json:"fajr_azan_url,omitempty"`

	Backend   TargetKind `db:"backend"    json:"backend"`
	TargetID  *int       `db:"target_id"  json:"target_id,omitempty"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Enabled reports the persisted enable flag for a schedulable kind.
func (s *Settings) Enabled(kind EventKind) bool {
	switch kind {
	case KindFajr:
		return s.FajrEnabled
	case KindSunrise:
		return s.SunriseEnabled
	case KindDhuhr:
		return s.DhuhrEnabled
	case KindAsr:
		return s.AsrEnabled
	case KindMaghrib:
		return s.MaghribEnabled
	case KindIsha:
		return s.IshaEnabled
	}
	return false
}

// SetEnabled flips the persisted enable flag for a schedulable kind.
func (s *Settings) SetEnabled(kind EventKind, on bool) {
	switch kind {
	case KindFajr:
		s.FajrEnabled = on
	case KindSunrise:
		s.SunriseEnabled = on
	case KindDhuhr:
		s.DhuhrEnabled = on
	case KindAsr:
		s.AsrEnabled = on
	case KindMaghrib:
		s.MaghribEnabled = on
	case KindIsha:
		s.IshaEnabled = on
	}
}

// AssetFor returns the logical asset id and source URL used for a kind.
// Fajr uses its dedicated audio when one is configured.
func (s *Settings) AssetFor(kind EventKind) (id, url string) {
	if kind == KindFajr && s.FajrAzanURL != nil && *s.FajrAzanURL != "" {
		return AssetFajr, *s.FajrAzanURL
	}
	return AssetPrimary, s.AzanURL
}
