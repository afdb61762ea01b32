// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string

	// OpenAIKey authenticates calls to the generation model. Required.
	OpenAIKey string

	// OpenAIModel is the chat model used for parsing, classification, and
	// plan generation. Defaults to "gpt-4o-mini".
	OpenAIModel string

	// AmadeusKey and AmadeusSecret authenticate the flight/hotel pricing
	// provider. Optional: when empty, flight and hotel-pricing slots
	// degrade to error markers.
	AmadeusKey    string
	AmadeusSecret string

	// WeatherKey authenticates the weather forecast provider. Optional.
	WeatherKey string

	// PlacesKey authenticates the points-of-interest provider, used for
	// both attractions and the hotel variety search. Optional.
	PlacesKey string

	// TicketmasterKey authenticates the events provider. Optional.
	TicketmasterKey string

	// GitHubToken raises the rate limit for guide retrieval. Optional.
	GitHubToken string

	// GuideRepo is the "owner/repo" holding destination guides.
	GuideRepo string

	// RequestTimeout bounds every outbound provider call. Defaults to 15s.
	RequestTimeout time.Duration

	// GuideMaxContextChars caps the total assembled guide excerpt block.
	// Defaults to 2800.
	GuideMaxContextChars int

	// GuideMaxDocChars caps each per-source snippet. Defaults to 650.
	GuideMaxDocChars int

	// IATADataPath points at an optional JSON file mapping city names to
	// IATA codes. When unset or unreadable, a built-in table of major
	// cities is used.
	IATADataPath string

	// JWTSecret signs session tokens. Required.
	JWTSecret string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AmadeusKey:           os.Getenv("AMADEUS_API_KEY"),
		AmadeusSecret:        os.Getenv("AMADEUS_API_SECRET"),
		WeatherKey:           os.Getenv("OPENWEATHER_API_KEY"),
		PlacesKey:            os.Getenv("PLACES_API_KEY"),
		TicketmasterKey:      os.Getenv("TICKETMASTER_API_KEY"),
		GitHubToken:          os.Getenv("GITHUB_TOKEN"),
		GuideRepo:            getEnv("GUIDE_REPO", ""),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		GuideMaxContextChars: getEnvInt("GUIDE_MAX_CONTEXT_CHARS", 2800),
		GuideMaxDocChars:     getEnvInt("GUIDE_MAX_DOC_CHARS", 650),
		IATADataPath:         os.Getenv("IATA_DATA_PATH"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses an integer environment variable, falling back on
// missing or malformed values.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration parses a duration environment variable. Plain integers
// are interpreted as seconds ("15" == "15s").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
