package timetable

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hassaan22/minaret/internal/model"
)

const portalPage = `<!DOCTYPE html>
<html><body>
<h1>Prayer Times</h1>
<table>
  <tr><th>Prayer</th><th>Adhan</th><th>Iqama</th></tr>
  <tr><td>Fajr</td><td>05:02</td><td>05:30</td></tr>
  <tr><td>Shuruq</td><td>06:31</td><td></td></tr>
  <tr><td>Zuhr</td><td>12:11</td><td>12:30</td></tr>
  <tr><td>Asr</td><td>15:47</td><td>16:00</td></tr>
  <tr><td>Maghrib</td><td>18:22</td><td>18:27</td></tr>
  <tr><td>Isha</td><td>19:51</td><td>20:10</td></tr>
</table>
<table>
  <tr><td>Fajr</td><td>05:30</td></tr>
</table>
</body></html>`

func TestPortalFetchParsesTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(portalPage))
	}))
	defer srv.Close()

	day := time.Date(2025, 8, 5, 0, 0, 0, 0, time.Local)
	table, err := NewPortalProvider(srv.URL).Fetch(context.Background(), day)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if table.Source != model.SourcePortal {
		t.Errorf("source = %s", table.Source)
	}
	// the first table wins; the trailing iqama table must not override fajr
	if got := table.Times[model.KindFajr].Format("15:04"); got != "05:02" {
		t.Errorf("fajr = %s, want 05:02", got)
	}
	// shuruq and zuhr aliases map to their canonical kinds
	if got := table.Times[model.KindSunrise].Format("15:04"); got != "06:31" {
		t.Errorf("sunrise = %s, want 06:31", got)
	}
	if got := table.Times[model.KindDhuhr].Format("15:04"); got != "12:11" {
		t.Errorf("dhuhr = %s, want 12:11", got)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("parsed table failed validation: %v", err)
	}
}

func TestPortalIncompletePageIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<table><tr><td>Fajr</td><td>05:02</td></tr></table>`))
	}))
	defer srv.Close()

	_, err := NewPortalProvider(srv.URL).Fetch(context.Background(), time.Now())
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}
}

func TestPortalDownIsSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewPortalProvider(srv.URL).Fetch(context.Background(), time.Now())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestNewRejectsUnknownSource(t *testing.T) {
	if _, err := New(Config{Source: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown source")
	}
	if _, err := New(Config{Source: model.SourcePortal}); err == nil {
		t.Error("portal source without URL should fail")
	}
}
