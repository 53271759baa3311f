package timetable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hassaan22/minaret/internal/model"
)

var (
	// ErrSourceUnavailable covers network failures and non-200 responses.
	ErrSourceUnavailable = errors.New("timetable source unavailable")
	// ErrParse covers responses the provider could not interpret.
	ErrParse = errors.New("timetable response could not be parsed")
)

// Provider produces one day's timetable. Implementations do not retry;
// the scheduler owns retry policy.
type Provider interface {
	Fetch(ctx context.Context, day time.Time) (*model.TimeTable, error)
}

// Config selects and parameterizes a concrete provider.
type Config struct {
	Source    string
	Method    int
	Latitude  float64
	Longitude float64
	PortalURL string
}

// New dispatches once at configuration time to a concrete provider.
func New(cfg Config) (Provider, error) {
	switch cfg.Source {
	case model.SourceAlAdhan:
		return NewAlAdhanProvider(cfg.Latitude, cfg.Longitude, cfg.Method), nil
	case model.SourcePortal:
		if cfg.PortalURL == "" {
			return nil, fmt.Errorf("portal source requires a portal URL")
		}
		return NewPortalProvider(cfg.PortalURL), nil
	default:
		return nil, fmt.Errorf("unknown timetable source %q", cfg.Source)
	}
}

// parseClock converts "HH:MM" (optionally "HH:MM (TZ)") into an instant on day.
func parseClock(raw string, day time.Time) (time.Time, error) {
	var h, m int
	if _, err := fmt.Sscanf(raw, "%d:%d", &h, &m); err != nil {
		return time.Time{}, fmt.Errorf("%w: bad clock value %q", ErrParse, raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("%w: clock value %q out of range", ErrParse, raw)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}
