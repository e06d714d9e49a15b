package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App   AppConfig
	Log   LogConfig
	HTTP  HTTPConfig
	Forms FormsConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
}

type LogConfig struct {
	Level  string // trace | debug | info | warn | error
	Format string // json | console
}

// HTTPConfig tunes the server and the JSON validation API.
type HTTPConfig struct {
	// CORSOrigins may call /api from other origins. Empty means same-origin only.
	CORSOrigins []string
	// RateLimit is the number of /api requests allowed per client per minute;
	// 0 disables limiting.
	RateLimit       int
	ShutdownTimeout time.Duration
}

// FormsConfig drives the validation engines bound by the application.
type FormsConfig struct {
	// KindsFile overrides the embedded form kind configuration when set.
	KindsFile string
	// Timezone is the IANA zone used to decide what "today" is.
	Timezone string
}

// Location resolves Timezone, falling back to time.Local.
func (f FormsConfig) Location() *time.Location {
	if f.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "CY-RH"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			URL:   env("APP_URL", "http://localhost"),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "console"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:     envList("HTTP_CORS_ORIGINS"),
			RateLimit:       GetInt("HTTP_RATE_LIMIT", 120),
			ShutdownTimeout: time.Duration(GetInt("HTTP_SHUTDOWN_SECONDS", 10)) * time.Second,
		},
		Forms: FormsConfig{
			KindsFile: env("FORMS_KINDS_FILE", ""),
			Timezone:  env("FORMS_TIMEZONE", "Europe/Paris"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
