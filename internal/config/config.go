package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	Env                          string
	MongoURI                     string
	MongoDatabase                string
	EstablishmentCollection      string
	PendingCollection            string
	ReviewCollection             string
	FailedNotificationCollection string
	Timeout                      time.Duration
	AdminEmails                  []string
	JWTConfigs                   []JWTConfig
	JWTAudience                  string
	RedisAddr                    string
	RedisPassword                string
	RedisDB                      int
	ActionGuardTTL               time.Duration
	ReconcilePollInterval        time.Duration
	AllowedOrigins               []string
	MessengerEndpoint            string
	DiscordDestination           string
	MessengerTimeout             time.Duration
	AdminReviewBaseURL           string
}

// Load reads environment variables and returns a fully populated Config.
func Load() (Config, error) {
	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "reststop-auth"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		return Config{}, errors.New("JWT secret not configured. Set AUTH_JWT_SECRET")
	}

	redisDB := 0
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, errors.New("REDIS_DB must be an integer")
		}
		redisDB = parsed
	}

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		Env:                          envOrDefault("APP_ENV", "production"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "reststop"),
		EstablishmentCollection:      envOrDefault("ESTABLISHMENT_COLLECTION", "establishments"),
		PendingCollection:            envOrDefault("PENDING_COLLECTION", "pending_establishments"),
		ReviewCollection:             envOrDefault("REVIEW_COLLECTION", "reviews"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		AdminEmails:                  normalizeEmails(parseList("ADMIN_EMAILS", nil)),
		JWTConfigs:                   jwtConfigs,
		JWTAudience:                  strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		RedisAddr:                    strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:                os.Getenv("REDIS_PASSWORD"),
		RedisDB:                      redisDB,
		ActionGuardTTL:               durationOrDefault("ACTION_GUARD_TTL", 30*time.Second),
		ReconcilePollInterval:        durationOrDefault("RECONCILE_POLL_INTERVAL", 30*time.Second),
		AllowedOrigins:               parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		MessengerEndpoint:            strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL")),
		DiscordDestination:           strings.TrimSpace(os.Getenv("MESSENGER_DISCORD_DESTINATION")),
		MessengerTimeout:             durationOrDefault("MESSENGER_GATEWAY_TIMEOUT", 3*time.Second),
		AdminReviewBaseURL:           strings.TrimSpace(os.Getenv("ADMIN_REVIEW_BASE_URL")),
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		out = append(out, strings.ToLower(strings.TrimSpace(email)))
	}
	return out
}
