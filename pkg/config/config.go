package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. It is loaded once at
// startup; nothing in here changes at runtime.
type Config struct {
	Port string

	// Firestore credentials. When either is missing the service runs in
	// permanent mirror-only mode.
	FirebaseProjectID   string
	FirebaseCredentials string

	// Path of the sqlite mirror database.
	MirrorPath string

	CORSHosts     string
	AdminPassword string
	ResendKey     string
	ReportEmail   string
}

// Load reads configuration from environment variables and an optional .env
// file.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	return Config{
		Port:                getEnv("PORT", "8080"),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		MirrorPath:          getEnv("MIRROR_PATH", "mirror.db"),
		CORSHosts:           getEnv("CORS_HOSTS", "*"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		ResendKey:           os.Getenv("RESEND_KEY"),
		ReportEmail:         os.Getenv("REPORT_EMAIL"),
	}
}

// StoreAvailable reports whether the document store is configured. Resolved
// once at startup and never re-checked.
func (c Config) StoreAvailable() bool {
	return c.FirebaseProjectID != "" && c.FirebaseCredentials != ""
}
