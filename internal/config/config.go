package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthHMACSecret string
	TokenTTL       time.Duration

	AdminUser     string
	AdminPassHash string // bcrypt

	SheetsDir string // uploaded marks sheets are archived here; "-" disables

	CORSOrigins    []string
	RequestTimeout time.Duration

	// AllowForceSave lets authors store blueprints that still have validation issues.
	AllowForceSave bool
}

// FromEnv reads the process environment, after loading ENV_FILE (default ".env") if present.
func FromEnv() Config {
	loadDotEnv(envOr("ENV_FILE", ".env"))

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000"
	if mode == ModeOnline {
		defOrigins = "https://lms.mindengage.ai"
	}
	return Config{
		Mode:           mode,
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTL:       envDuration("TOKEN_TTL", 8*time.Hour),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		SheetsDir:      envOr("SHEETS_DIR", "./data/sheets"),
		CORSOrigins:    csvOr("CORS_ORIGINS", defOrigins),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
		AllowForceSave: envBool("ALLOW_FORCE_SAVE", mode == ModeOffline),
	}
}

// loadDotEnv never overrides variables already set; a missing file is not an error.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: stat %s: %v", path, err)
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Fatalf("config: godotenv(%s): %v", path, err)
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using %s", k, v, def)
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
