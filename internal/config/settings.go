package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultSettingsFile = ".env"

// LoadSettingsFile seeds the process environment from a local settings file
// (SCORES_SETTINGS_FILE, default .env). Variables already present in the
// environment are left untouched and a missing file is not an error.
func LoadSettingsFile() error {
	path := strings.TrimSpace(os.Getenv("SCORES_SETTINGS_FILE"))
	if path == "" {
		path = defaultSettingsFile
	}
	return loadSettingsFrom(path)
}

func loadSettingsFrom(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
