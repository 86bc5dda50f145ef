package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one found wins.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the first .env file found into the process environment.
// Existing variables are never overwritten.
func loadEnvFiles() {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			slog.Debug("Loaded environment variables", "path", f)
			return
		}
	}
}
