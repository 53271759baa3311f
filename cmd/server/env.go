package main

import (
	"log"
	"os"
	"strings"
)

type Environment struct {
	Environment    string
	ServerAddress  string
	ExternalURL    string
	SecretKey      string
	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string

	MediaDir       string
	FetcherCommand []string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	env := Environment{
		Environment:    os.Getenv("APP_ENV"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SecretKey:      os.Getenv("JWT_SECRET"),
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		ExternalURL:    os.Getenv("SERVER_EXTERNAL_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),

		MediaDir: os.Getenv("MEDIA_DIR"),

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
	}

	// optional external downloader, e.g. "yt-dlp -o {out} {url}"
	if raw := os.Getenv("FETCHER_COMMAND"); raw != "" {
		env.FetcherCommand = strings.Fields(raw)
	}

	if env.MediaDir == "" {
		env.MediaDir = "./media"
	}
	if env.MQTTBrokerURL == "" {
		env.MQTTBrokerURL = "tcp://localhost:1883"
	}
	if env.ExternalURL == "" {
		env.ExternalURL = "http://" + env.ServerAddress
	}

	// Basic validation
	if env.DatabaseURL == "" || env.SecretKey == "" || env.ServerAddress == "" {
		log.Fatal("Missing required environment variables")
	}

	return env
}
