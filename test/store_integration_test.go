package test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/model"
)

// TestStoreIntegration exercises the persistence layer directly.
func TestStoreIntegration(t *testing.T) {
	store := db.TestStore

	t.Run("User Management", func(t *testing.T) {
		userID, err := store.CreateUser("store-user@example.com", "hashedpassword", nil)
		assert.NoError(t, err)
		assert.Greater(t, userID, 0)

		user, err := store.GetUserByEmail("store-user@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "store-user@example.com", user.Email)

		name := "Updated Name"
		err = store.UpdateUserProfile(userID, "store-user2@example.com", &name)
		assert.NoError(t, err)
	})

	t.Run("Settings Roundtrip", func(t *testing.T) {
		settings, err := store.GetSettings()
		assert.NoError(t, err)
		// migration seeds the singleton row
		assert.Equal(t, 1, settings.ID)

		settings.OffsetMinutes = -5
		settings.SunriseEnabled = true
		settings.AzanURL = "http://example.com/azan.mp3"
		settings.City = "DEARBORN"

		updated, err := store.UpdateSettings(settings)
		assert.NoError(t, err)
		assert.Equal(t, -5, updated.OffsetMinutes)
		assert.True(t, updated.SunriseEnabled)

		reloaded, err := store.GetSettings()
		assert.NoError(t, err)
		assert.Equal(t, "http://example.com/azan.mp3", reloaded.AzanURL)
		assert.Equal(t, "DEARBORN", reloaded.City)
	})

	t.Run("Target Management", func(t *testing.T) {
		userID, err := store.CreateUser("target-owner@example.com", "password", nil)
		assert.NoError(t, err)

		target, err := store.CreateTarget("Living Room", model.TargetCast, nil, userID)
		assert.NoError(t, err)
		assert.Equal(t, "Living Room", target.Name)
		assert.False(t, target.Paired)

		err = store.UpdateTarget(target.ID, "Hallway", model.TargetWakeLaunch, nil)
		assert.NoError(t, err)

		updated, err := store.GetTargetByID(target.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Hallway", updated.Name)
		assert.Equal(t, model.TargetWakeLaunch, updated.Kind)

		err = store.PairTarget(target.ID, "device-abc-123")
		assert.NoError(t, err)

		paired, err := store.GetTargetByID(target.ID)
		assert.NoError(t, err)
		assert.True(t, paired.Paired)
		if assert.NotNil(t, paired.DeviceID) {
			assert.Equal(t, "device-abc-123", *paired.DeviceID)
		}

		deviceID := "device-abc-123"
		isPaired, err := db.IsTargetPairedByDeviceID(&deviceID)
		assert.NoError(t, err)
		assert.True(t, isPaired)

		err = store.DeleteTarget(target.ID)
		assert.NoError(t, err)
		_, err = store.GetTargetByID(target.ID)
		assert.Error(t, err)
	})

	t.Run("Asset Records", func(t *testing.T) {
		err := store.UpsertAssetRecord(model.AssetPrimary, "http://a/azan.mp3", "/data/cache/primary.mp3")
		assert.NoError(t, err)

		record, err := store.GetAssetRecord(model.AssetPrimary)
		assert.NoError(t, err)
		if assert.NotNil(t, record) {
			assert.Equal(t, "http://a/azan.mp3", record.SourceURL)
		}

		// upsert replaces the source URL in place
		err = store.UpsertAssetRecord(model.AssetPrimary, "http://b/azan.mp3", "/data/cache/primary.mp3")
		assert.NoError(t, err)
		record, _ = store.GetAssetRecord(model.AssetPrimary)
		assert.Equal(t, "http://b/azan.mp3", record.SourceURL)

		err = store.DeleteAssetRecord(model.AssetPrimary)
		assert.NoError(t, err)
		record, err = store.GetAssetRecord(model.AssetPrimary)
		assert.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("Playback History", func(t *testing.T) {
		started := time.Now().Add(-time.Minute)
		ended := time.Now()
		session := model.PlaybackSession{
			ID:        uuid.NewString(),
			Kind:      model.KindDhuhr,
			AssetID:   model.AssetPrimary,
			TargetID:  1,
			State:     model.SessionActive,
			StartedAt: started,
		}

		assert.NoError(t, db.RecordSession(session))

		// session transitions are upserted onto the same row
		session.State = model.SessionDone
		session.EndedAt = &ended
		assert.NoError(t, db.RecordSession(session))

		sessions, err := store.ListRecentSessions(10)
		assert.NoError(t, err)
		assert.NotEmpty(t, sessions)

		var found *model.PlaybackSession
		for i := range sessions {
			if sessions[i].ID == session.ID {
				found = &sessions[i]
			}
		}
		if assert.NotNil(t, found, "recorded session should appear in history") {
			assert.Equal(t, model.SessionDone, found.State)
			assert.NotNil(t, found.EndedAt)
		}
	})
}
