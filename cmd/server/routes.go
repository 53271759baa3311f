package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/http/api"
	authapi "github.com/hassaan22/minaret/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/hassaan22/minaret/internal/http/api/admin/control/endpoints"
	deviceapi "github.com/hassaan22/minaret/internal/http/api/device/endpoints"
	publicapi "github.com/hassaan22/minaret/internal/http/api/public/endpoints"
	"github.com/hassaan22/minaret/internal/model"
	"github.com/hassaan22/minaret/internal/scheduler"
	"github.com/hassaan22/minaret/internal/status"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	sched *scheduler.Scheduler,
	pub *status.Publisher,
	applySettings func(model.Settings) error,
	tmpl *template.Template,
) {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
	},
		// control modules
		adminapi.SettingsModule(store, applySettings),
		adminapi.TargetModule(store),
		adminapi.PlaybackModule(store, sched),
		// session endpoints that require auth
		authapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/public",
	},
		publicapi.StatusModule(pub, store),
	)

	device := r.Group("/api/device")
	deviceapi.RegisterPairingRoutes(device, store)

	publicapi.RegisterIntegrationRoutes(r, pub, store)

	// Static content
	if !env.UseSpaces {
		r.Static("/media", env.MediaDir)
	}
}
