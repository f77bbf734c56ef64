package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// AudioControls is the listen/stop bar below a card
type AudioControls struct {
	widget.BaseWidget

	container    *fyne.Container
	listenButton *ttwidget.Button
	stopButton   *ttwidget.Button
	statusLabel  *widget.Label

	onListen func()
	onStop   func()
}

// NewAudioControls creates the controls. Both callbacks run on the UI
// goroutine.
func NewAudioControls(onListen, onStop func()) *AudioControls {
	p := &AudioControls{onListen: onListen, onStop: onStop}

	p.listenButton = ttwidget.NewButton("", p.listen)
	p.listenButton.Icon = theme.MediaPlayIcon()
	p.listenButton.SetToolTip("Listen (l)")

	p.stopButton = ttwidget.NewButton("", p.stop)
	p.stopButton.Icon = theme.MediaStopIcon()
	p.stopButton.SetToolTip("Stop audio")

	p.statusLabel = widget.NewLabel("")

	// Initially disable controls
	p.listenButton.Disable()
	p.stopButton.Disable()

	p.container = container.NewHBox(
		p.listenButton,
		p.stopButton,
		layout.NewSpacer(),
		p.statusLabel,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *AudioControls) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetWord enables the controls for a card, or disables them for ""
func (p *AudioControls) SetWord(word string) {
	if word == "" {
		p.listenButton.Disable()
		p.stopButton.Disable()
		p.statusLabel.SetText("")
		return
	}
	p.listenButton.Enable()
	p.stopButton.Enable()
	p.statusLabel.SetText("Audio: " + word)
}

// Listen triggers playback if a card is shown
func (p *AudioControls) Listen() {
	if !p.listenButton.Disabled() {
		p.listen()
	}
}

func (p *AudioControls) listen() {
	if p.onListen != nil {
		p.onListen()
	}
}

func (p *AudioControls) stop() {
	if p.onStop != nil {
		p.onStop()
	}
}
