package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port        string
	Timezone    string
	DBPath      string
	LogLevel    string
	LogDev      bool
	CatalogFile string
	// EnableHeaderAuth trusts X-Owner-Id from a fronting proxy.
	EnableHeaderAuth bool
	WriteTimeout     time.Duration
	GuestIdleTTL     time.Duration
}

// Load reads .env when present, then the environment. The returned warnings
// list values that were malformed and replaced by defaults.
func Load() (AppConfig, []string) {
	var warns []string
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		warns = append(warns, "load .env: "+err.Error())
	}

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			warns = append(warns, k+"="+raw+" is not a positive duration, using "+def.String())
			return def
		}
		return d
	}

	cfg := AppConfig{
		Port:             get("PORT", "8080"),
		Timezone:         get("TZ", "Asia/Dhaka"),
		DBPath:           get("DB_PATH", "cropcal.db"),
		LogLevel:         get("LOG_LEVEL", "info"),
		LogDev:           get("LOG_DEV", "false") == "true",
		CatalogFile:      get("CATALOG_FILE", ""),
		EnableHeaderAuth: get("ENABLE_HEADER_AUTH", "false") == "true",
		WriteTimeout:     dur("WRITE_TIMEOUT", 10*time.Second),
		GuestIdleTTL:     dur("GUEST_IDLE_TTL", 2*time.Hour),
	}
	return cfg, warns
}
