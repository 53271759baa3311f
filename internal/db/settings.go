package db

import (
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/model"
)

const settingsColumns = `
	id, source, method, latitude, longitude, city, portal_url, offset_minutes,
	fajr_enabled, sunrise_enabled, dhuhr_enabled, asr_enabled, maghrib_enabled, isha_enabled,
	azan_url, fajr_azan_url, backend, target_id, updated_at`

// GetSettings loads the singleton settings row.
func GetSettings() (model.Settings, error) {
	var s model.Settings
	err := DB.Get(&s, `SELECT `+settingsColumns+` FROM settings WHERE id = 1;`)
	if err != nil {
		log.Error().Err(err).Msg("GetSettings failed")
	}
	return s, err
}

// UpdateSettings replaces the singleton settings row.
func UpdateSettings(s model.Settings) (model.Settings, error) {
	var out model.Settings
	const q = `
	UPDATE settings SET
		source = $1, method = $2, latitude = $3, longitude = $4, city = $5,
		portal_url = $6, offset_minutes = $7,
		fajr_enabled = $8, sunrise_enabled = $9, dhuhr_enabled = $10,
		asr_enabled = $11, maghrib_enabled = $12, isha_enabled = $13,
		azan_url = $14, fajr_azan_url = $15, backend = $16, target_id = $17,
		updated_at = now()
	WHERE id = 1
	RETURNING ` + settingsColumns + `;`
	err := DB.Get(&out, q,
		s.Source, s.Method, s.Latitude, s.Longitude, s.City,
		s.PortalURL, s.OffsetMinutes,
		s.FajrEnabled, s.SunriseEnabled, s.DhuhrEnabled,
		s.AsrEnabled, s.MaghribEnabled, s.IshaEnabled,
		s.AzanURL, s.FajrAzanURL, s.Backend, s.TargetID)
	if err != nil {
		log.Error().Err(err).Msg("UpdateSettings failed")
	}
	return out, err
}
