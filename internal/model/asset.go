package model

import "time"

// AssetState tracks the fetch lifecycle of a cached audio file.
type AssetState string

const (
	AssetAbsent   AssetState = "absent"
	AssetFetching AssetState = "fetching"
	AssetReady    AssetState = "ready"
	AssetFailed   AssetState = "failed"
)

// Logical asset identifiers. The fajr asset overrides the primary one for
// fajr playback when a separate URL is configured.
const (
	AssetPrimary = "primary"
	AssetFajr    = "fajr"
)

// AudioAsset maps a logical identifier to a locally cached playable file.
type AudioAsset struct {
	ID        string     `db:"id"          json:"id"`
	SourceURL string     `db:"source_url"  json:"source_url"`
	LocalPath *string    `db:"local_path"  json:"local_path,omitempty"`
	State     AssetState `db:"-"           json:"state"`
	UpdatedAt time.Time  `db:"updated_at"  json:"updated_at"`
}
