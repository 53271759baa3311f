package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/http/api"
	"github.com/hassaan22/minaret/internal/http/api/admin/control/packets"
	"github.com/hassaan22/minaret/internal/model"
)

type SettingsController struct {
	store db.Store
	// apply re-dispatches the provider/driver and re-arms the schedule
	apply func(model.Settings) error
}

func NewSettingsController(store db.Store, apply func(model.Settings) error) *SettingsController {
	return &SettingsController{store: store, apply: apply}
}

func SettingsModule(store db.Store, apply func(model.Settings) error) api.Module {
	ctl := NewSettingsController(store, apply)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/settings", ctl.getSettings)
		c.PUT("/settings", ctl.updateSettings)
	})
}

func (s *SettingsController) getSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load settings"}
	}
	return settings, nil
}

func (s *SettingsController) updateSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load settings"}
	}

	applyUpdates(&settings, &request)

	updated, err := s.store.UpdateSettings(settings)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update settings"}
	}

	if s.apply != nil {
		if err := s.apply(updated); err != nil {
			log.Error().Err(err).Msg("settings saved but reconfiguration failed")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "settings saved but not applied"}
		}
	}

	return updated, nil
}

func applyUpdates(settings *model.Settings, req *packets.UpdateSettingsRequest) {
	if req.Source != nil {
		settings.Source = *req.Source
	}
	if req.Method != nil {
		settings.Method = *req.Method
	}
	if req.Latitude != nil {
		settings.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		settings.Longitude = *req.Longitude
	}
	if req.City != nil {
		settings.City = *req.City
	}
	if req.PortalURL != nil {
		settings.PortalURL = req.PortalURL
	}
	if req.OffsetMinutes != nil {
		settings.OffsetMinutes = *req.OffsetMinutes
	}
	if req.FajrEnabled != nil {
		settings.FajrEnabled = *req.FajrEnabled
	}
	if req.SunriseEnabled != nil {
		settings.SunriseEnabled = *req.SunriseEnabled
	}
	if req.DhuhrEnabled != nil {
		settings.DhuhrEnabled = *req.DhuhrEnabled
	}
	if req.AsrEnabled != nil {
		settings.AsrEnabled = *req.AsrEnabled
	}
	if req.MaghribEnabled != nil {
		settings.MaghribEnabled = *req.MaghribEnabled
	}
	if req.IshaEnabled != nil {
		settings.IshaEnabled = *req.IshaEnabled
	}
	if req.AzanURL != nil {
		settings.AzanURL = *req.AzanURL
	}
	if req.FajrAzanURL != nil {
		settings.FajrAzanURL = req.FajrAzanURL
	}
	if req.Backend != nil {
		settings.Backend = model.TargetKind(*req.Backend)
	}
	if req.TargetID != nil {
		settings.TargetID = req.TargetID
	}
}
