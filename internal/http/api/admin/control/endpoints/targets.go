package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/http/api"
	"github.com/hassaan22/minaret/internal/http/api/admin/control/packets"
	"github.com/hassaan22/minaret/internal/model"
	redisclient "github.com/hassaan22/minaret/internal/redis"
)

type TargetController struct {
	store db.Store
}

func NewTargetController(store db.Store) *TargetController {
	return &TargetController{store: store}
}

func TargetModule(store db.Store) api.Module {
	ctl := NewTargetController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/targets", ctl.listTargets)
		c.POST("/targets", ctl.createTarget)
		c.GET("/targets/:id", ctl.getTarget)
		c.PUT("/targets/:id", ctl.updateTarget)
		c.DELETE("/targets/:id", ctl.deleteTarget)

		// pairing completion: bind the code a device registered over /api/device
		c.POST("/targets/:id/pair", ctl.pairTarget)
	})
}

func targetResponse(t model.Target) packets.TargetResponse {
	return packets.TargetResponse{
		ID:        t.ID,
		DeviceID:  t.DeviceID,
		Name:      t.Name,
		Kind:      string(t.Kind),
		Location:  t.Location,
		Paired:    t.Paired,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

func (t *TargetController) listTargets(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListTargets()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list targets"}
	}

	out := make([]packets.TargetResponse, 0, len(all))
	for _, target := range all {
		if target.CreatedBy != user.ID {
			continue
		}
		out = append(out, targetResponse(target))
	}
	return out, nil
}

func (t *TargetController) createTarget(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateTargetRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	kind := model.TargetKind(request.Kind)
	if kind != model.TargetCast && kind != model.TargetWakeLaunch {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid target kind"}
	}

	target, err := t.store.CreateTarget(request.Name, kind, request.Location, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create target"}
	}
	return targetResponse(target), nil
}

func (t *TargetController) getTarget(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	target, err := t.store.GetTargetByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "target not found"}
	}
	if target.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return targetResponse(target), nil
}

func (t *TargetController) updateTarget(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := t.store.GetTargetByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "target not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.UpdateTargetRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := t.store.UpdateTarget(id, request.Name, model.TargetKind(request.Kind), request.Location); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update target"}
	}

	updated, _ := t.store.GetTargetByID(id)
	return targetResponse(updated), nil
}

func (t *TargetController) deleteTarget(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := t.store.GetTargetByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "target not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := t.store.DeleteTarget(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete target"}
	}
	return gin.H{"message": "deleted"}, nil
}

// POST /api/admin/targets/:id/pair
func (t *TargetController) pairTarget(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := t.store.GetTargetByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "target not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.PairTargetRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	deviceID, ok := redisclient.Get(ctx, request.PairingCode)
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "unknown pairing code"}
	}

	if err := t.store.PairTarget(id, deviceID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not pair target"}
	}
	redisclient.Delete(ctx, request.PairingCode)

	log.Info().Int("target_id", id).Str("device", deviceID).Msg("target paired")
	updated, _ := t.store.GetTargetByID(id)
	return targetResponse(updated), nil
}
