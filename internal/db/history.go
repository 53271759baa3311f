package db

import (
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/model"
)

// RecordSession appends a playback session to the history log.
func RecordSession(s model.PlaybackSession) error {
	_, err := DB.Exec(`
	INSERT INTO playback_history (id, kind, asset_id, target_id, state, started_at, ended_at, error)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE
	SET state = $5, ended_at = $7, error = $8;`,
		s.ID, s.Kind, s.AssetID, s.TargetID, s.State, s.StartedAt, s.EndedAt, s.Error)
	if err != nil {
		log.Error().Err(err).Str("session_id", s.ID).Msg("RecordSession failed")
	}
	return err
}

// ListRecentSessions returns the most recent playback attempts, newest first.
func ListRecentSessions(limit int) ([]model.PlaybackSession, error) {
	var out []model.PlaybackSession
	err := DB.Select(&out, `
	SELECT id, kind, asset_id, target_id, state, started_at, ended_at, error
	FROM playback_history
	ORDER BY started_at DESC
	LIMIT $1;`, limit)
	if err != nil {
		log.Error().Err(err).Msg("ListRecentSessions failed")
		return nil, err
	}
	return out, nil
}
