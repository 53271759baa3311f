package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/assets"
	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/model"
	"github.com/hassaan22/minaret/internal/playback"
	redisclient "github.com/hassaan22/minaret/internal/redis"
	"github.com/hassaan22/minaret/internal/scheduler"
	"github.com/hassaan22/minaret/internal/status"
	"github.com/hassaan22/minaret/internal/timetable"
)

func main() {
	_ = godotenv.Load()

	env := LoadEnvironment()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisclient.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	store := db.NewStore()

	settings, err := store.GetSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load settings")
	}

	storageSystem := InitStorage(env)

	broker, err := playback.NewBroker(env.MQTTBrokerURL, "minaret-server")
	if err != nil {
		log.Fatal().Err(err).Str("broker", env.MQTTBrokerURL).Msg("failed to connect to MQTT broker")
	}

	provider, err := timetable.New(providerConfig(settings))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure timetable provider")
	}

	driver, err := playback.NewDriver(settings.Backend, broker)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure playback driver")
	}

	var fetcher assets.Fetcher = assets.NewHTTPFetcher()
	if len(env.FetcherCommand) > 0 {
		fetcher = assets.NewExecFetcher(env.FetcherCommand)
	}
	cache := assets.NewCache(filepath.Join(env.MediaDir, "cache"), fetcher, store)

	// the publisher wraps the scheduler, so the status hook is bound late
	var pub *status.Publisher

	sched := scheduler.New(scheduler.Config{
		Provider: provider,
		Cache:    cache,
		Driver:   driver,
		Media:    storageSystem,
		DeviceID: resolveDeviceID(store, settings),
		Settings: settings,
		Recorder: func(s model.PlaybackSession) {
			if err := db.RecordSession(s); err != nil {
				log.Error().Err(err).Str("session_id", s.ID).Msg("failed to record session")
			}
		},
		OnStatus: func(st model.Status) {
			if pub != nil {
				pub.PushStatus(st)
			}
		},
	})
	pub = status.NewPublisher(sched)

	applySettings := func(updated model.Settings) error {
		provider, err := timetable.New(providerConfig(updated))
		if err != nil {
			return err
		}
		driver, err := playback.NewDriver(updated.Backend, broker)
		if err != nil {
			return err
		}
		sched.Configure(updated, provider, driver, resolveDeviceID(store, updated))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return sched.Refresh(ctx)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := sched.Run(ctx); err != nil {
			log.Error().Err(err).Msg("scheduler stopped")
		}
	}()
	go sched.Prefetch(ctx)

	r := gin.Default()
	RegisterRoutes(r, env, store, sched, pub, applySettings, LoadTemplates())

	srv := &http.Server{
		Addr:    env.ServerAddress,
		Handler: r,
	}

	go func() {
		log.Info().Str("address", env.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	sched.Shutdown()
	broker.Close()
}

func providerConfig(s model.Settings) timetable.Config {
	cfg := timetable.Config{
		Source:    s.Source,
		Method:    s.Method,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
	if s.PortalURL != nil {
		cfg.PortalURL = *s.PortalURL
	}
	return cfg
}

// resolveDeviceID maps the configured target row to its paired device, if any.
func resolveDeviceID(store db.Store, s model.Settings) string {
	if s.TargetID == nil {
		return ""
	}
	target, err := store.GetTargetByID(*s.TargetID)
	if err != nil {
		log.Warn().Err(err).Int("target_id", *s.TargetID).Msg("configured target not found")
		return ""
	}
	if target.DeviceID == nil {
		log.Warn().Int("target_id", *s.TargetID).Msg("configured target is not paired")
		return ""
	}
	return *target.DeviceID
}
