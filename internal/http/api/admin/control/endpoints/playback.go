package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/http/api"
	"github.com/hassaan22/minaret/internal/http/api/admin/control/packets"
	"github.com/hassaan22/minaret/internal/model"
	"github.com/hassaan22/minaret/internal/scheduler"
)

type PlaybackController struct {
	store db.Store
	sched *scheduler.Scheduler
}

func NewPlaybackController(store db.Store, sched *scheduler.Scheduler) *PlaybackController {
	return &PlaybackController{store: store, sched: sched}
}

func PlaybackModule(store db.Store, sched *scheduler.Scheduler) api.Module {
	ctl := NewPlaybackController(store, sched)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/playback/trigger", ctl.trigger)
		c.POST("/playback/stop", ctl.stop)
		c.POST("/schedule/refresh", ctl.refresh)
		c.GET("/playback/history", ctl.history)
	})
}

// POST /api/admin/playback/trigger
func (p *PlaybackController) trigger(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.TriggerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	kind, err := model.ParseEventKind(request.Kind)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	log.Info().Str("kind", string(kind)).Int("user_id", user.ID).Msg("manual trigger")

	// playback runs through preemption and asset resolve; don't hold the request
	go func() {
		triggerCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := p.sched.Trigger(triggerCtx, kind); err != nil {
			log.Error().Err(err).Str("kind", string(kind)).Msg("manual trigger failed")
		}
	}()

	return gin.H{"message": "trigger accepted", "kind": string(kind)}, nil
}

// POST /api/admin/playback/stop
func (p *PlaybackController) stop(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := p.sched.StopPlayback(ctx); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not stop playback"}
	}
	return gin.H{"message": "stopped"}, nil
}

// POST /api/admin/schedule/refresh
func (p *PlaybackController) refresh(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := p.sched.Refresh(ctx); err != nil {
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "refresh failed; previous schedule kept"}
	}
	return gin.H{"message": "refreshed"}, nil
}

// GET /api/admin/playback/history
func (p *PlaybackController) history(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	sessions, err := p.store.ListRecentSessions(50)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list history"}
	}

	out := make([]packets.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp := packets.SessionResponse{
			ID:        s.ID,
			Kind:      string(s.Kind),
			AssetID:   s.AssetID,
			TargetID:  s.TargetID,
			State:     string(s.State),
			StartedAt: s.StartedAt.Format(time.RFC3339),
			Error:     s.Error,
		}
		if s.EndedAt != nil {
			ended := s.EndedAt.Format(time.RFC3339)
			resp.EndedAt = &ended
		}
		out = append(out, resp)
	}
	return out, nil
}
