package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tapcycle/internal/core/model"
	"tapcycle/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window is the setup window. Invalid launch parameters land here.
type Window struct {
	window     fyne.Window
	settings   model.Settings
	onStart    func(model.Settings)
	training   *widget.Entry
	breakTime  *widget.Entry
	cycles     *widget.Entry
	scope      *widget.Select
	persist    *widget.Check
	notify     *widget.Check
	errorLabel *widget.Label
}

// New creates the setup window. onStart receives validated settings.
func New(app fyne.App, settings model.Settings, onStart func(model.Settings)) *Window {
	window := app.NewWindow("tapcycle setup")

	training := widget.NewEntry()
	breakTime := widget.NewEntry()
	cycles := widget.NewEntry()
	cycles.SetPlaceHolder("unlimited")

	scope := widget.NewSelect([]string{string(phasetimer.ClickScopeTraining), string(phasetimer.ClickScopeSession)}, nil)
	persist := widget.NewCheck("Store clicks per cycle", nil)
	notify := widget.NewCheck("Desktop notifications", nil)

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Phases", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Training"), training, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break"), breakTime, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Cycles"), cycles),
		widget.NewLabelWithStyle("Clicks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Count during"), scope),
		persist,
		notify,
		errorLabel,
	)

	startButton := widget.NewButton("Start", nil)
	startButton.Importance = widget.HighImportance
	buttons := container.NewHBox(layout.NewSpacer(), startButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 360))

	setup := &Window{
		window:     window,
		onStart:    onStart,
		training:   training,
		breakTime:  breakTime,
		cycles:     cycles,
		scope:      scope,
		persist:    persist,
		notify:     notify,
		errorLabel: errorLabel,
	}
	setup.UpdateSettings(settings)
	startButton.OnTapped = setup.handleStart

	return setup
}

// Show displays the setup window.
func (setup *Window) Show() {
	setup.window.Show()
	setup.window.RequestFocus()
}

// Hide hides the setup window.
func (setup *Window) Hide() {
	setup.window.Hide()
}

// SetCloseIntercept replaces closing the window with handler.
func (setup *Window) SetCloseIntercept(handler func()) {
	setup.window.SetCloseIntercept(handler)
}

// ShowError displays why the last parameters were rejected.
func (setup *Window) ShowError(err error) {
	if err == nil {
		setup.errorLabel.SetText("")
		setup.errorLabel.Hide()
		return
	}
	setup.errorLabel.SetText(describe(err))
	setup.errorLabel.Show()
}

// UpdateSettings replaces window values.
func (setup *Window) UpdateSettings(settings model.Settings) {
	setup.settings = settings
	setup.training.SetText(formatMinutes(settings.TrainingMinutes))
	setup.breakTime.SetText(formatMinutes(settings.BreakMinutes))
	if settings.Cycles > 0 {
		setup.cycles.SetText(strconv.Itoa(settings.Cycles))
	} else {
		setup.cycles.SetText("")
	}
	setup.scope.SetSelected(settings.ClickScope)
	setup.persist.SetChecked(settings.PersistCycles)
	setup.notify.SetChecked(settings.Notify)
}

func (setup *Window) handleStart() {
	settings, err := setup.readSettings()
	if err != nil {
		setup.ShowError(err)
		return
	}
	setup.ShowError(nil)
	setup.settings = settings
	if setup.onStart != nil {
		setup.onStart(settings)
	}
	setup.window.Hide()
}

func (setup *Window) readSettings() (model.Settings, error) {
	settings := setup.settings

	training, err := parseMinutes("time", setup.training.Text)
	if err != nil {
		return settings, err
	}
	breakMinutes, err := parseMinutes("break", setup.breakTime.Text)
	if err != nil {
		return settings, err
	}
	cycles := 0
	if text := strings.TrimSpace(setup.cycles.Text); text != "" {
		cycles, err = strconv.Atoi(text)
		if err != nil || cycles <= 0 {
			return settings, &model.ConfigError{Field: "times", Value: text, Reason: "must be a positive whole number"}
		}
	}

	settings.TrainingMinutes = training
	settings.BreakMinutes = breakMinutes
	settings.Cycles = cycles
	if scope, err := phasetimer.ParseClickScope(setup.scope.Selected); err == nil {
		settings.ClickScope = string(scope)
	}
	settings.PersistCycles = setup.persist.Checked
	settings.Notify = setup.notify.Checked

	if _, err := settings.TimerConfig(); err != nil {
		return settings, err
	}
	return settings, nil
}

func parseMinutes(field, text string) (float64, error) {
	text = strings.TrimSpace(text)
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value <= 0 {
		return 0, &model.ConfigError{Field: field, Value: text, Reason: "must be a positive number of minutes"}
	}
	return value, nil
}

func formatMinutes(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func describe(err error) string {
	var configErr *model.ConfigError
	if errors.As(err, &configErr) {
		return fmt.Sprintf("Invalid %s", configErr.Error())
	}
	return err.Error()
}
