package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/hassaan22/minaret/internal/model"
)

// PlaybackError reports a backend that rejected a start or stop command.
type PlaybackError struct {
	Op  string
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback %s failed: %v", e.Op, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// Commander delivers opaque commands to a remote device and observes its
// acknowledgment events. The Broker is the production implementation.
type Commander interface {
	SendCommand(ctx context.Context, deviceID string, payload []byte) error
	AwaitEvent(ctx context.Context, deviceID, event string, timeout time.Duration) bool
}

// Driver starts and stops playback on one backend variant. Implementations
// report failures, never swallow them; a stop on an idle backend succeeds.
type Driver interface {
	Start(ctx context.Context, deviceID, mediaURL string) error
	Stop(ctx context.Context, deviceID string) error
}

// NewDriver dispatches once at configuration time to the backend chosen in
// settings.
func NewDriver(kind model.TargetKind, cmd Commander) (Driver, error) {
	switch kind {
	case model.TargetCast:
		return NewCastDriver(cmd), nil
	case model.TargetWakeLaunch:
		return NewWakeLaunchDriver(cmd), nil
	default:
		return nil, fmt.Errorf("unknown playback backend %q", kind)
	}
}
