package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server settings.
type Config struct {
	ListenAddr       string
	AllowedOrigins   []string
	MaxUploadBytes   int64
	SessionCacheSize int
	SessionTTL       time.Duration
}

// Default returns the settings used when no config file or env override is
// present. The upload ceiling matches the documented 50 MiB cap.
func Default() Config {
	return Config{
		ListenAddr:       ":8080",
		AllowedOrigins:   []string{"http://localhost:3000"},
		MaxUploadBytes:   50 << 20,
		SessionCacheSize: 256,
		SessionTTL:       30 * time.Minute,
	}
}

// Load reads config.yaml from configPath and applies environment
// overrides (REVIEWLENS_SERVER_ADDR, REVIEWLENS_UPLOAD_MAX_BYTES, ...).
func Load(configPath string) (Config, error) {
	// Start with defaults
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("REVIEWLENS")

	v.BindEnv("server.addr")
	v.BindEnv("server.allowed_origins")
	v.BindEnv("upload.max_bytes")
	v.BindEnv("session.cache_size")
	v.BindEnv("session.ttl")

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config.yaml found, using defaults and env vars")
	} else {
		log.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.ListenAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("upload.max_bytes") {
		cfg.MaxUploadBytes = v.GetInt64("upload.max_bytes")
	}
	if v.IsSet("session.cache_size") {
		cfg.SessionCacheSize = v.GetInt("session.cache_size")
	}
	if v.IsSet("session.ttl") {
		cfg.SessionTTL = v.GetDuration("session.ttl")
	}

	return cfg, nil
}
