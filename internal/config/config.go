package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	DatabaseURL   string
	RedisURL      string
	NatsURL       string
	JWTSecret     string
	BatchCacheTTL time.Duration

	// Detection thresholds. Operators tune these per assessment format.
	MinTimePerQuestion    float64
	MaxIdleTime           float64
	SuspiciousTabSwitches int
	SuspiciousCopyPastes  int
	MaxTypingSpeedCPM     float64
	RandomGuessBaseline   float64
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("INTEGRITY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Integrity API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("batch.cache_ttl", "10m")
	v.SetDefault("thresholds.min_time_per_question", 5.0)
	v.SetDefault("thresholds.max_idle_time", 300.0)
	v.SetDefault("thresholds.suspicious_tab_switches", 5)
	v.SetDefault("thresholds.suspicious_copy_pastes", 3)
	v.SetDefault("thresholds.max_typing_speed_cpm", 800.0)
	v.SetDefault("thresholds.random_guess_baseline", 0.25)

	ttlString := v.GetString("batch.cache_ttl")
	if ttlString == "" {
		ttlString = "10m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid batch cache ttl: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		NatsURL:               v.GetString("nats.url"),
		JWTSecret:             v.GetString("jwt.secret"),
		BatchCacheTTL:         ttl,
		MinTimePerQuestion:    v.GetFloat64("thresholds.min_time_per_question"),
		MaxIdleTime:           v.GetFloat64("thresholds.max_idle_time"),
		SuspiciousTabSwitches: v.GetInt("thresholds.suspicious_tab_switches"),
		SuspiciousCopyPastes:  v.GetInt("thresholds.suspicious_copy_pastes"),
		MaxTypingSpeedCPM:     v.GetFloat64("thresholds.max_typing_speed_cpm"),
		RandomGuessBaseline:   v.GetFloat64("thresholds.random_guess_baseline"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MinTimePerQuestion <= 0 {
		cfg.MinTimePerQuestion = 5.0
	}
	if cfg.MaxTypingSpeedCPM <= 0 {
		cfg.MaxTypingSpeedCPM = 800.0
	}
	if cfg.RandomGuessBaseline <= 0 || cfg.RandomGuessBaseline >= 1 {
		cfg.RandomGuessBaseline = 0.25
	}

	return cfg, nil
}
