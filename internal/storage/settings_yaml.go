package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tapcycle/internal/core/model"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TrainingMinutes float64 `yaml:"training_minutes"`
	BreakMinutes    float64 `yaml:"break_minutes"`
	Cycles          int     `yaml:"cycles"`
	ClickScope      string  `yaml:"click_scope"`
	PersistCycles   *bool   `yaml:"persist_cycles,omitempty"`
	Notify          bool    `yaml:"notify"`
}

// LoadSettings reads user preferences from YAML in configDir.
// If the file does not exist, default settings are returned.
func LoadSettings(configDir string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(filepath.Join(configDir, settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML in configDir.
func SaveSettings(configDir string, settings model.Settings) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	persist := settings.PersistCycles
	fileData := yamlSettings{
		TrainingMinutes: settings.TrainingMinutes,
		BreakMinutes:    settings.BreakMinutes,
		Cycles:          settings.Cycles,
		ClickScope:      settings.ClickScope,
		PersistCycles:   &persist,
		Notify:          settings.Notify,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, settingsFileName), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.TrainingMinutes > 0 {
		settings.TrainingMinutes = fileData.TrainingMinutes
	}
	if fileData.BreakMinutes > 0 {
		settings.BreakMinutes = fileData.BreakMinutes
	}
	if fileData.Cycles >= 0 {
		settings.Cycles = fileData.Cycles
	}
	if fileData.ClickScope == "session" || fileData.ClickScope == "training" {
		settings.ClickScope = fileData.ClickScope
	}
	if fileData.PersistCycles != nil {
		settings.PersistCycles = *fileData.PersistCycles
	}
	settings.Notify = fileData.Notify
}
