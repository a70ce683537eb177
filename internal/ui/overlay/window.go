package overlay

import (
	"image/color"
	"strconv"

	"tapcycle/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window is the timer window: a phase title, the countdown and the click
// count. Tapping anywhere in it counts a click.
type Window struct {
	window      fyne.Window
	background  *canvas.Rectangle
	titleLabel  *canvas.Text
	timeLabel   *canvas.Text
	clicksLabel *canvas.Text
	surface     *tapSurface
	onClick     func()
}

var (
	trainingColor  = color.NRGBA{R: 28, G: 92, B: 60, A: 255}
	breakColor     = color.NRGBA{R: 30, G: 64, B: 110, A: 255}
	completedColor = color.NRGBA{R: 48, G: 48, B: 48, A: 255}
	textColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	timeColor      = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
)

const (
	defaultWidth  = float32(420)
	defaultHeight = float32(320)
)

// New creates the timer window. It stays hidden until Show is called.
func New(app fyne.App, title string) *Window {
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(trainingColor)

	titleLabel := canvas.NewText(phasetimer.PhaseTitle(phasetimer.PhaseTraining, 1), textColor)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 28

	timeLabel := canvas.NewText(phasetimer.FormatTime(0), timeColor)
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeLabel.TextSize = 56

	clicksLabel := canvas.NewText("0", textColor)
	clicksLabel.Alignment = fyne.TextAlignCenter
	clicksLabel.TextSize = 40

	overlay := &Window{
		window:      window,
		background:  background,
		titleLabel:  titleLabel,
		timeLabel:   timeLabel,
		clicksLabel: clicksLabel,
	}

	panel := container.New(&panelLayout{}, titleLabel, timeLabel, clicksLabel)
	overlay.surface = newTapSurface(container.NewStack(background, panel), overlay.click)
	window.SetContent(overlay.surface)
	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		if event.Name == fyne.KeySpace || event.Name == fyne.KeyReturn || event.Name == fyne.KeyEnter {
			overlay.click()
		}
	})
	window.Resize(fyne.NewSize(defaultWidth, defaultHeight))

	return overlay
}

// SetOnClick sets the handler for taps and the space or enter keys.
func (overlay *Window) SetOnClick(handler func()) {
	overlay.onClick = handler
}

// SetCloseIntercept replaces closing the window with handler.
func (overlay *Window) SetCloseIntercept(handler func()) {
	overlay.window.SetCloseIntercept(handler)
}

// Show raises the window.
func (overlay *Window) Show() {
	overlay.window.Show()
	overlay.window.RequestFocus()
}

// Hide hides the window without closing it.
func (overlay *Window) Hide() {
	overlay.window.Hide()
}

// ShowPhase implements phasetimer.Display.
func (overlay *Window) ShowPhase(phase phasetimer.Phase, cycle int, remaining string) {
	fyne.Do(func() {
		overlay.setPhaseUnsafe(phase, cycle, remaining)
	})
}

// ShowClicks implements phasetimer.Display.
func (overlay *Window) ShowClicks(count int) {
	fyne.Do(func() {
		overlay.setClicksUnsafe(count)
	})
}

func (overlay *Window) click() {
	if overlay.onClick != nil {
		overlay.onClick()
	}
}

func (overlay *Window) setPhaseUnsafe(phase phasetimer.Phase, cycle int, remaining string) {
	title := phasetimer.PhaseTitle(phase, cycle)
	if overlay.titleLabel.Text != title {
		overlay.titleLabel.Text = title
		overlay.titleLabel.Refresh()
		overlay.window.SetTitle(title)
	}

	fill := phaseColor(phase)
	if overlay.background.FillColor != fill {
		overlay.background.FillColor = fill
		overlay.background.Refresh()
	}

	if overlay.timeLabel.Text != remaining {
		overlay.timeLabel.Text = remaining
		overlay.timeLabel.Refresh()
	}
}

func (overlay *Window) setClicksUnsafe(count int) {
	overlay.clicksLabel.Text = strconv.Itoa(count)
	overlay.clicksLabel.Refresh()
}

func phaseColor(phase phasetimer.Phase) color.Color {
	switch phase {
	case phasetimer.PhaseBreak:
		return breakColor
	case phasetimer.PhaseCompleted:
		return completedColor
	default:
		return trainingColor
	}
}

// tapSurface makes the whole window content tappable.
type tapSurface struct {
	widget.BaseWidget
	content fyne.CanvasObject
	onTap   func()
}

func newTapSurface(content fyne.CanvasObject, onTap func()) *tapSurface {
	surface := &tapSurface{content: content, onTap: onTap}
	surface.ExtendBaseWidget(surface)
	return surface
}

func (surface *tapSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(surface.content)
}

func (surface *tapSurface) Tapped(*fyne.PointEvent) {
	if surface.onTap != nil {
		surface.onTap()
	}
}

// panelLayout stacks title, time and clicks, with the time centered.
type panelLayout struct{}

func (layout *panelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	title := objects[0]
	timer := objects[1]
	clicks := objects[2]

	pad := size.Height * 0.06

	titleSize := title.MinSize()
	title.Move(fyne.NewPos(0, pad))
	title.Resize(fyne.NewSize(size.Width, titleSize.Height))

	timerSize := timer.MinSize()
	timerY := (size.Height - timerSize.Height) / 2
	if timerY < pad+titleSize.Height {
		timerY = pad + titleSize.Height
	}
	timer.Move(fyne.NewPos(0, timerY))
	timer.Resize(fyne.NewSize(size.Width, timerSize.Height))

	clicksSize := clicks.MinSize()
	clicksY := size.Height - pad - clicksSize.Height
	if clicksY < timerY+timerSize.Height {
		clicksY = timerY + timerSize.Height
	}
	clicks.Move(fyne.NewPos(0, clicksY))
	clicks.Resize(fyne.NewSize(size.Width, clicksSize.Height))
}

func (layout *panelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	width := float32(0)
	height := float32(24)
	for _, object := range objects[:3] {
		size := object.MinSize()
		if size.Width > width {
			width = size.Width
		}
		height += size.Height
	}
	return fyne.NewSize(width+20, height)
}
