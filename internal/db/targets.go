package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	_ "github.com/lib/pq"

	"github.com/hassaan22/minaret/internal/model"
)

const targetColumns = `id, device_id, name, kind, location, paired, created_by, created_at, updated_at`

func GetTargetByID(id int) (model.Target, error) {
	var t model.Target
	err := DB.Get(&t, `SELECT `+targetColumns+` FROM targets WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("target_id", id).Msg("GetTargetByID failed")
	}
	return t, err
}

func GetTargetByDeviceID(deviceID *string) (model.Target, error) {
	var t model.Target
	err := DB.Get(&t, `SELECT `+targetColumns+` FROM targets WHERE device_id = $1;`, deviceID)
	if err != nil {
		log.Error().Err(err).Msg("GetTargetByDeviceID failed")
	}
	return t, err
}

func IsTargetPairedByDeviceID(deviceID *string) (bool, error) {
	var isPaired bool
	err := DB.Get(&isPaired, `SELECT paired FROM targets WHERE device_id = $1;`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return isPaired, err
}

func ListTargets() ([]model.Target, error) {
	var targets []model.Target
	err := DB.Select(&targets, `SELECT `+targetColumns+` FROM targets ORDER BY id;`)
	if err != nil {
		log.Error().Err(err).Msg("ListTargets failed")
	}
	return targets, err
}

func CreateTarget(name string, kind model.TargetKind, location *string, createdBy int) (model.Target, error) {
	var t model.Target
	const q = `
	INSERT INTO targets (name, kind, location, paired, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, false, $4, now(), now())
	RETURNING ` + targetColumns + `;`
	if err := DB.Get(&t, q, name, kind, location, createdBy); err != nil {
		log.Error().Err(err).Msg("CreateTarget failed")
		return model.Target{}, err
	}
	return t, nil
}

func UpdateTarget(id int, name string, kind model.TargetKind, location *string) error {
	_, err := DB.Exec(`
	UPDATE targets SET name = $2, kind = $3, location = $4, updated_at = now()
	WHERE id = $1;`, id, name, kind, location)
	if err != nil {
		log.Error().Err(err).Int("target_id", id).Msg("UpdateTarget failed")
	}
	return err
}

func DeleteTarget(id int) error {
	_, err := DB.Exec(`DELETE FROM targets WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("target_id", id).Msg("DeleteTarget failed")
	}
	return err
}

// PairTarget binds a device id to a target record and marks it paired.
func PairTarget(id int, deviceID string) error {
	_, err := DB.Exec(`
	UPDATE targets SET device_id = $2, paired = true, updated_at = now()
	WHERE id = $1;`, id, deviceID)
	if err != nil {
		log.Error().Err(err).Int("target_id", id).Msg("PairTarget failed")
	}
	return err
}
