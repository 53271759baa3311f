package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/model"
)

const aladhanBaseURL = "https://api.aladhan.com/v1/timings"

// kinds as named by the AlAdhan timings payload.
var aladhanNames = map[model.EventKind]string{
	model.KindFajr:    "Fajr",
	model.KindSunrise: "Sunrise",
	model.KindDhuhr:   "Dhuhr",
	model.KindAsr:     "Asr",
	model.KindMaghrib: "Maghrib",
	model.KindIsha:    "Isha",
}

// AlAdhanProvider computes times via the api.aladhan.com calculation API.
type AlAdhanProvider struct {
	latitude  float64
	longitude float64
	method    int
	baseURL   string
	client    *http.Client
}

func NewAlAdhanProvider(latitude, longitude float64, method int) *AlAdhanProvider {
	return &AlAdhanProvider{
		latitude:  latitude,
		longitude: longitude,
		method:    method,
		baseURL:   aladhanBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type aladhanResponse struct {
	Data struct {
		Timings map[string]string `json:"timings"`
		Date    struct {
			Hijri struct {
				Day   string `json:"day"`
				Year  string `json:"year"`
				Month struct {
					En string `json:"en"`
				} `json:"month"`
			} `json:"hijri"`
		} `json:"date"`
	} `json:"data"`
}

func (p *AlAdhanProvider) Fetch(ctx context.Context, day time.Time) (*model.TimeTable, error) {
	url := fmt.Sprintf("%s/%s?latitude=%f&longitude=%f&method=%d",
		p.baseURL, day.Format("02-01-2006"), p.latitude, p.longitude, p.method)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: aladhan returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var payload aladhanResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	times := make(map[model.EventKind]time.Time, len(model.Kinds))
	for kind, name := range aladhanNames {
		raw, ok := payload.Data.Timings[name]
		if !ok {
			return nil, fmt.Errorf("%w: timings missing %s", ErrParse, name)
		}
		at, err := parseClock(raw, day)
		if err != nil {
			return nil, err
		}
		times[kind] = at
	}

	hijri := payload.Data.Date.Hijri
	hijriDate := ""
	if hijri.Day != "" {
		hijriDate = fmt.Sprintf("%s %s %s", hijri.Day, hijri.Month.En, hijri.Year)
	}

	log.Debug().Str("day", day.Format("2006-01-02")).Msg("fetched aladhan timetable")

	return &model.TimeTable{
		Day:       day,
		Source:    model.SourceAlAdhan,
		Method:    strconv.Itoa(p.method),
		HijriDate: hijriDate,
		Times:     times,
	}, nil
}
