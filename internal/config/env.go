package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docket/internal/logfields"
)

// envFiles are tried in order; the first one present is loaded.
var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads variables from the first existing env file. Variables
// already present in the process environment are never overridden. It returns
// the loaded file or "" when none exists.
func loadEnvFile() (string, error) {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", err
		}
		slog.Debug("Loaded environment variables", logfields.Path(envPath))
		return envPath, nil
	}
	return "", nil
}
