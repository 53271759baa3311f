package playback

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// CastDriver issues play-media commands with a URL reachable by the
// target device.
type CastDriver struct {
	cmd Commander
}

func NewCastDriver(cmd Commander) *CastDriver {
	return &CastDriver{cmd: cmd}
}

func (d *CastDriver) Start(ctx context.Context, deviceID, mediaURL string) error {
	payload, _ := json.Marshal(map[string]any{
		"type":         "play_media",
		"url":          mediaURL,
		"content_type": "audio/mpeg",
	})
	if err := d.cmd.SendCommand(ctx, deviceID, payload); err != nil {
		return &PlaybackError{Op: "start", Err: err}
	}
	log.Info().Str("device", deviceID).Str("url", mediaURL).Msg("cast playback started")
	return nil
}

func (d *CastDriver) Stop(ctx context.Context, deviceID string) error {
	payload, _ := json.Marshal(map[string]any{"type": "stop"})
	if err := d.cmd.SendCommand(ctx, deviceID, payload); err != nil {
		return &PlaybackError{Op: "stop", Err: err}
	}
	log.Info().Str("device", deviceID).Msg("cast playback stopped")
	return nil
}
