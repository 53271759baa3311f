package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/model"
)

// GetAssetRecord returns the persisted cache record for a logical asset id.
// Returns nil when no record exists yet.
func GetAssetRecord(id string) (*model.AudioAsset, error) {
	var a model.AudioAsset
	err := DB.Get(&a, `
	SELECT id, source_url, local_path, updated_at
	FROM audio_assets
	WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("asset_id", id).Msg("GetAssetRecord failed")
		return nil, err
	}
	return &a, nil
}

// UpsertAssetRecord stores the cached file path for a logical asset id so
// the cache survives restarts.
func UpsertAssetRecord(id, sourceURL, localPath string) error {
	_, err := DB.Exec(`
	INSERT INTO audio_assets (id, source_url, local_path, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (id) DO UPDATE
	SET source_url = $2, local_path = $3, updated_at = now();`, id, sourceURL, localPath)
	if err != nil {
		log.Error().Err(err).Str("asset_id", id).Msg("UpsertAssetRecord failed")
	}
	return err
}

// DeleteAssetRecord removes a stale cache record (source URL changed).
func DeleteAssetRecord(id string) error {
	_, err := DB.Exec(`DELETE FROM audio_assets WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("asset_id", id).Msg("DeleteAssetRecord failed")
	}
	return err
}
