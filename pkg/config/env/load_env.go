package env

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file into the process.
// ENV_PATH overrides defaultPath. A missing file is tolerated in every
// environment since OPENSEARCH_* may be exported directly; a file that
// exists but cannot be parsed is an error. Variables already set win.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
		if env == "local" || env == "" {
			slog.Warn("No .env file found, relying on process environment", "path", envPath)
		} else {
			slog.Debug("Skipping .env ...", "env", env)
		}
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	slog.Debug("Loaded .env", "path", envPath)
	return nil
}
