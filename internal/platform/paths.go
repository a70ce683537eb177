package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds the per-user locations used by the application.
type Paths struct {
	ConfigDir string
	LogDir    string
	Database  string
}

var (
	userConfigDirFunc = os.UserConfigDir
	userHomeDirFunc   = os.UserHomeDir
)

// ResolvePaths returns the OS-standard locations for appName.
func ResolvePaths(appName string) (Paths, error) {
	base, err := configBaseDir()
	if err != nil {
		return Paths{}, err
	}
	configDir := filepath.Join(base, appName)
	return Paths{
		ConfigDir: configDir,
		LogDir:    filepath.Join(configDir, "logs"),
		Database:  filepath.Join(configDir, "cycles.db"),
	}, nil
}

func configBaseDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := userHomeDirFunc()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(runtime.GOOS, homeDir), nil
}

func fallbackConfigDir(goos, homeDir string) string {
	switch goos {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support")
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming")
	default:
		return filepath.Join(homeDir, ".config")
	}
}
