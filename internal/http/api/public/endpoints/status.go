package endpoints

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/http/api"
	"github.com/hassaan22/minaret/internal/model"
	"github.com/hassaan22/minaret/internal/status"
)

type StatusController struct {
	pub   *status.Publisher
	store db.Store
}

func NewStatusController(pub *status.Publisher, store db.Store) *StatusController {
	return &StatusController{pub: pub, store: store}
}

func StatusModule(pub *status.Publisher, store db.Store) api.Module {
	ctl := NewStatusController(pub, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/status", ctl.getStatus)
		c.PUBLIC_GET("/timetable", ctl.getTimetable)
	})
}

// GET /api/public/status
func (s *StatusController) getStatus(ctx *gin.Context) (any, *api.APIError) {
	return s.pub.Snapshot(), nil
}

// GET /api/public/timetable
func (s *StatusController) getTimetable(ctx *gin.Context) (any, *api.APIError) {
	table := s.pub.Timetable()
	if table == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "no timetable loaded yet"}
	}
	return table, nil
}

func RegisterIntegrationRoutes(r gin.IRoutes, pub *status.Publisher, store db.Store) {
	ctl := NewStatusController(pub, store)
	r.GET("/integrations/:name", ctl.serveIntegration)
}

func (s *StatusController) serveIntegration(ctx *gin.Context) {
	name := ctx.Param("name")
	switch name {
	case "athan":
		s.serveAthan(ctx)
	default:
		ctx.String(http.StatusNotFound, "integration not found")
	}
}

func (s *StatusController) serveAthan(ctx *gin.Context) {
	table := s.pub.Timetable()
	if table == nil {
		ctx.String(http.StatusServiceUnavailable, "prayer times not loaded yet")
		return
	}

	settings, err := s.store.GetSettings()
	if err != nil {
		ctx.String(http.StatusInternalServerError, "failed to load settings")
		return
	}

	snap := s.pub.Snapshot()

	prayers := make([]model.Prayer, 0, len(model.Kinds))
	for _, kind := range model.Kinds {
		at, ok := table.Times[kind]
		if !ok {
			continue
		}
		time12, period := to12Hour(at)
		prayers = append(prayers, model.Prayer{
			Name:    strings.ToUpper(string(kind)),
			Time:    time12,
			Period:  period,
			Enabled: settings.Enabled(kind),
		})
	}

	data := model.AthanPageData{
		City:      strings.ToUpper(settings.City),
		Date:      strings.ToUpper(table.Day.Format("January 2, 2006")),
		HijriDate: table.HijriDate,
		Status:    string(snap.Status),
		NextKind:  strings.ToUpper(string(snap.NextKind)),
		Countdown: formatCountdown(snap.CountdownSeconds),
		Prayers:   prayers,
	}

	ctx.HTML(http.StatusOK, "athan.html", data)
}

// to12Hour converts a wall-clock instant to ("05:30", "PM").
func to12Hour(at time.Time) (string, string) {
	h := at.Hour()
	period := "AM"
	if h >= 12 {
		period = "PM"
		if h > 12 {
			h -= 12
		}
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d", h, at.Minute()), period
}

func formatCountdown(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
