package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the nearest .env file, searching dir and then its
// parents, into the process environment. Variables that are already set
// keep their values. It returns the path of the loaded file, or "" when
// none was found.
func LoadDotEnv(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if info, err := os.Stat(envPath); err == nil && !info.IsDir() {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("loading %s: %w", envPath, err)
			}
			return envPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
