package playback

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultWakeGrace = 5 * time.Second

// WakeLaunchDriver wakes the device first and launches an external player
// once the device acknowledges being awake. Devices without an
// acknowledgment signal get a fixed grace delay instead.
type WakeLaunchDriver struct {
	cmd       Commander
	wakeGrace time.Duration
	playerPkg string
}

func NewWakeLaunchDriver(cmd Commander) *WakeLaunchDriver {
	return &WakeLaunchDriver{
		cmd:       cmd,
		wakeGrace: defaultWakeGrace,
		playerPkg: "org.videolan.vlc",
	}
}

func (d *WakeLaunchDriver) Start(ctx context.Context, deviceID, mediaURL string) error {
	wake, _ := json.Marshal(map[string]any{"type": "screen_on"})
	if err := d.cmd.SendCommand(ctx, deviceID, wake); err != nil {
		return &PlaybackError{Op: "wake", Err: err}
	}

	// launch only after the wake is acknowledged, or after the grace delay
	if !d.cmd.AwaitEvent(ctx, deviceID, "awake", d.wakeGrace) {
		log.Debug().Str("device", deviceID).Msg("no wake ack, proceeding after grace delay")
	}
	if ctx.Err() != nil {
		return &PlaybackError{Op: "wake", Err: ctx.Err()}
	}

	launch, _ := json.Marshal(map[string]any{
		"type":         "launch_player",
		"url":          mediaURL,
		"content_type": "audio/mpeg",
		"package":      d.playerPkg,
	})
	if err := d.cmd.SendCommand(ctx, deviceID, launch); err != nil {
		return &PlaybackError{Op: "launch", Err: err}
	}

	log.Info().Str("device", deviceID).Str("url", mediaURL).Msg("wake-and-launch playback started")
	return nil
}

func (d *WakeLaunchDriver) Stop(ctx context.Context, deviceID string) error {
	payload, _ := json.Marshal(map[string]any{
		"type":    "media_stop",
		"package": d.playerPkg,
	})
	if err := d.cmd.SendCommand(ctx, deviceID, payload); err != nil {
		return &PlaybackError{Op: "stop", Err: err}
	}
	log.Info().Str("device", deviceID).Msg("wake-and-launch playback stopped")
	return nil
}
