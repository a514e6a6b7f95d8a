// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

const (
	DefaultDatabasePath = "./billboard-200.db"
	DefaultArtist       = "David Bowie"
	DefaultHTTPAddr     = ":8080"
	DefaultTokenURL     = "https://accounts.spotify.com/api/token"
	DefaultAPIURL       = "https://api.spotify.com/v1"
)

// Config stores the application configuration.
type Config struct {
	DatabasePath string
	Artist       string
	TopK         int
	HTTPAddr     string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyTokenURL     string
	SpotifyAPIURL       string

	LogLevel string
	LogFile  string

	// EnvFileLoaded records whether a .env file was read.
	EnvFileLoaded bool
}

// PreviewsEnabled reports whether Spotify credentials are present.
func (c *Config) PreviewsEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvInt gets a positive integer environment variable or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return fallback
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first but never overrides variables already set.
// Whether a .env file was found is kept in EnvFileLoaded so callers can log it
// once a logger exists.
func Load() *Config {
	envFile := godotenv.Load() == nil

	return &Config{
		DatabasePath:        getEnv("SOUNDSCOPE_DB", DefaultDatabasePath),
		Artist:              getEnv("SOUNDSCOPE_ARTIST", DefaultArtist),
		TopK:                getEnvInt("SOUNDSCOPE_TOP_K", domain.DefaultTopK),
		HTTPAddr:            getEnv("HTTP_ADDR", DefaultHTTPAddr),
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyTokenURL:     getEnv("SPOTIFY_TOKEN_URL", DefaultTokenURL),
		SpotifyAPIURL:       getEnv("SPOTIFY_API_URL", DefaultAPIURL),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFile:             os.Getenv("LOG_FILE"),
		EnvFileLoaded:       envFile,
	}
}
