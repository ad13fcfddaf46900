package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBPath    string
	ChromeBin string
	Headless  bool

	// Pipeline timings
	TabTimeout    time.Duration // hard cap on one platform's scrape
	ReadyTimeout  time.Duration // bounded wait for the readiness container
	SettleDelay   time.Duration // initial delay after navigation
	EnrichWait    time.Duration // wait after navigating to a detail view
	EnrichPacing  time.Duration // delay between per-record enrichments
	TabCloseGrace time.Duration // delay before a finished tab is closed

	NominatimURL string
	UserAgent    string

	PostgresDSN string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DBPath:    getEnv("LEADTAP_DB", "./leadtap.db"),
		ChromeBin: getEnv("CHROME_BIN", ""),
		Headless:  getEnvBool("LEADTAP_HEADLESS", true),

		TabTimeout:    getEnvDuration("LEADTAP_TAB_TIMEOUT", 30*time.Second),
		ReadyTimeout:  getEnvDuration("LEADTAP_READY_TIMEOUT", 5*time.Second),
		SettleDelay:   getEnvDuration("LEADTAP_SETTLE_DELAY", 2*time.Second),
		EnrichWait:    getEnvDuration("LEADTAP_ENRICH_WAIT", 3*time.Second),
		EnrichPacing:  getEnvDuration("LEADTAP_ENRICH_PACING", 1*time.Second),
		TabCloseGrace: getEnvDuration("LEADTAP_TAB_CLOSE_GRACE", 3*time.Second),

		NominatimURL: getEnv("LEADTAP_NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:    getEnv("LEADTAP_USER_AGENT", ""),

		PostgresDSN: getEnv("LEADTAP_POSTGRES_DSN", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
