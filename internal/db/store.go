// exposes a Store interface that is passed to API controllers
package db

import (
	"github.com/hassaan22/minaret/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// settings
	GetSettings() (model.Settings, error)
	UpdateSettings(s model.Settings) (model.Settings, error)

	// playback targets
	ListTargets() ([]model.Target, error)
	GetTargetByID(id int) (model.Target, error)
	GetTargetByDeviceID(deviceID *string) (model.Target, error)
	CreateTarget(name string, kind model.TargetKind, location *string, createdBy int) (model.Target, error)
	UpdateTarget(id int, name string, kind model.TargetKind, location *string) error
	DeleteTarget(id int) error
	PairTarget(id int, deviceID string) error

	// cached audio assets
	GetAssetRecord(id string) (*model.AudioAsset, error)
	UpsertAssetRecord(id, sourceURL, localPath string) error
	DeleteAssetRecord(id string) error

	// playback history
	ListRecentSessions(limit int) ([]model.PlaybackSession, error)
}

type pgStore struct{}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

// NewStore returns a Store backed by the global DB connection.
func NewStore() Store {
	return &pgStore{}
}

func (p *pgStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	return CreateUser(email, hashedPassword, name)
}

func (p *pgStore) GetUserByEmail(email string) (*model.User, error) {
	return GetUserByEmail(email)
}

func (p *pgStore) GetUserByID(id int) (*model.User, error) {
	return GetUserByID(id)
}

func (p *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	return UpdateUserProfile(id, email, name)
}

func (p *pgStore) GetSettings() (model.Settings, error) {
	return GetSettings()
}

func (p *pgStore) UpdateSettings(s model.Settings) (model.Settings, error) {
	return UpdateSettings(s)
}

func (p *pgStore) ListTargets() ([]model.Target, error) {
	return ListTargets()
}

func (p *pgStore) GetTargetByID(id int) (model.Target, error) {
	return GetTargetByID(id)
}

func (p *pgStore) GetTargetByDeviceID(deviceID *string) (model.Target, error) {
	return GetTargetByDeviceID(deviceID)
}

func (p *pgStore) CreateTarget(name string, kind model.TargetKind, location *string, createdBy int) (model.Target, error) {
	return CreateTarget(name, kind, location, createdBy)
}

func (p *pgStore) UpdateTarget(id int, name string, kind model.TargetKind, location *string) error {
	return UpdateTarget(id, name, kind, location)
}

func (p *pgStore) DeleteTarget(id int) error {
	return DeleteTarget(id)
}

func (p *pgStore) PairTarget(id int, deviceID string) error {
	return PairTarget(id, deviceID)
}

func (p *pgStore) GetAssetRecord(id string) (*model.AudioAsset, error) {
	return GetAssetRecord(id)
}

func (p *pgStore) UpsertAssetRecord(id, sourceURL, localPath string) error {
	return UpsertAssetRecord(id, sourceURL, localPath)
}

func (p *pgStore) DeleteAssetRecord(id string) error {
	return DeleteAssetRecord(id)
}

func (p *pgStore) ListRecentSessions(limit int) ([]model.PlaybackSession, error) {
	return ListRecentSessions(limit)
}
