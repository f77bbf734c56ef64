package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/estflash/internal/session"
)

const hiddenTranslation = "? ? ?"

// CardDisplay shows the current card or the session status
type CardDisplay struct {
	widget.BaseWidget

	container        *fyne.Container
	wordLabel        *widget.Label
	translationLabel *widget.Label
	statusLabel      *widget.Label
}

// NewCardDisplay creates a new card display widget
func NewCardDisplay() *CardDisplay {
	d := &CardDisplay{}

	d.wordLabel = widget.NewLabel("")
	d.wordLabel.Alignment = fyne.TextAlignCenter
	d.wordLabel.TextStyle = fyne.TextStyle{Bold: true}
	d.wordLabel.SizeName = theme.SizeNameHeadingText

	d.translationLabel = widget.NewLabel("")
	d.translationLabel.Alignment = fyne.TextAlignCenter
	d.translationLabel.Wrapping = fyne.TextWrapWord

	d.statusLabel = widget.NewLabel(session.MsgLoading)
	d.statusLabel.Alignment = fyne.TextAlignCenter
	d.statusLabel.Wrapping = fyne.TextWrapWord

	d.container = container.NewVBox(
		layout.NewSpacer(),
		d.wordLabel,
		widget.NewSeparator(),
		d.translationLabel,
		d.statusLabel,
		layout.NewSpacer(),
	)

	d.ExtendBaseWidget(d)
	return d
}

// CreateRenderer implements fyne.Widget
func (d *CardDisplay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.container)
}

// SetState renders s. Must run on the UI goroutine.
func (d *CardDisplay) SetState(s session.State) {
	card, ok := s.Current()
	if !ok {
		d.wordLabel.SetText("")
		d.translationLabel.SetText("")
		d.statusLabel.SetText(s.Status())
		d.statusLabel.Show()
		return
	}

	d.statusLabel.Hide()
	d.wordLabel.SetText(card.Estonian)
	if s.Revealed() {
		d.translationLabel.SetText(card.Translation)
	} else {
		d.translationLabel.SetText(hiddenTranslation)
	}
}

// Word returns the displayed Estonian word
func (d *CardDisplay) Word() string {
	return d.wordLabel.Text
}

// Translation returns the displayed translation line
func (d *CardDisplay) Translation() string {
	return d.translationLabel.Text
}

// Status returns the status message, "" while a card is shown
func (d *CardDisplay) Status() string {
	if !d.statusLabel.Visible() {
		return ""
	}
	return d.statusLabel.Text
}
