package preferences

import (
	"errors"
	"testing"

	"tapcycle/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSettingsFillsFields(t *testing.T) {
	settings := model.DefaultSettings()
	settings.Cycles = 4
	setup := New(test.NewApp(), settings, nil)

	assert.Equal(t, "1", setup.training.Text)
	assert.Equal(t, "0.5", setup.breakTime.Text)
	assert.Equal(t, "4", setup.cycles.Text)
	assert.Equal(t, "training", setup.scope.Selected)
	assert.True(t, setup.persist.Checked)
}

func TestStartPassesValidatedSettings(t *testing.T) {
	var started []model.Settings
	setup := New(test.NewApp(), model.DefaultSettings(), func(settings model.Settings) {
		started = append(started, settings)
	})

	setup.training.SetText("2.5")
	setup.cycles.SetText("3")
	setup.scope.SetSelected("session")
	setup.handleStart()

	require.Len(t, started, 1)
	assert.Equal(t, 2.5, started[0].TrainingMinutes)
	assert.Equal(t, 0.5, started[0].BreakMinutes)
	assert.Equal(t, 3, started[0].Cycles)
	assert.Equal(t, "session", started[0].ClickScope)
	assert.False(t, setup.errorLabel.Visible())
}

func TestStartRejectsInvalidInput(t *testing.T) {
	for name, fill := range map[string]func(*Window){
		"zero training":  func(setup *Window) { setup.training.SetText("0") },
		"text break":     func(setup *Window) { setup.breakTime.SetText("soon") },
		"negative times": func(setup *Window) { setup.cycles.SetText("-1") },
		"fraction times": func(setup *Window) { setup.cycles.SetText("1.5") },
	} {
		t.Run(name, func(t *testing.T) {
			started := 0
			setup := New(test.NewApp(), model.DefaultSettings(), func(model.Settings) { started++ })
			fill(setup)

			setup.handleStart()
			assert.Zero(t, started)
			assert.True(t, setup.errorLabel.Visible())
			assert.Contains(t, setup.errorLabel.Text, "Invalid")
		})
	}
}

func TestShowErrorDescribesConfigError(t *testing.T) {
	setup := New(test.NewApp(), model.DefaultSettings(), nil)

	setup.ShowError(&model.ConfigError{Field: "time", Value: "abc", Reason: "not a number"})
	assert.Equal(t, `Invalid time="abc": not a number`, setup.errorLabel.Text)

	setup.ShowError(errors.New("boom"))
	assert.Equal(t, "boom", setup.errorLabel.Text)

	setup.ShowError(nil)
	assert.False(t, setup.errorLabel.Visible())
}
