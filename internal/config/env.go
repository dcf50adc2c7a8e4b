package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file and sets environment variables.
// Missing files are ignored to keep startup flexible. Variables already set in
// the process environment win.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
