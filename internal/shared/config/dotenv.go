package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"xtra/internal/shared/telemetry"
)

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already present in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			telemetry.Warn("config: unable to load env file", map[string]any{"path": path, "err": err.Error()})
		}
	}
}
