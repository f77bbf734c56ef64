package gui

import (
	"context"
	"fmt"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/estflash/internal"
	"codeberg.org/snonux/estflash/internal/audio"
	"codeberg.org/snonux/estflash/internal/importer"
	"codeberg.org/snonux/estflash/internal/logging"
	"codeberg.org/snonux/estflash/internal/session"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	tabs          *container.AppTabs
	studyTab      *container.TabItem
	importTab     *container.TabItem
	cardDisplay   *CardDisplay
	audioControls *AudioControls
	progressLabel *widget.Label
	statsLabel    *widget.Label
	importView    *ImportView

	// Action buttons
	revealButton    *ttwidget.Button
	knewButton      *ttwidget.Button
	didntKnowButton *ttwidget.Button
	refreshButton   *ttwidget.Button
	helpButton      *ttwidget.Button

	config *Config
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// Config holds the components the GUI drives
type Config struct {
	Session *session.Controller
	Import  *importer.Form
	// Player is optional; it is stopped by the stop button
	Player *audio.Player
	// Logs is optional; when set a log tab shows its lines
	Logs *LogWriter
	Log  *zap.Logger
	// App defaults to the desktop driver
	App fyne.App
}

// New creates a new GUI application. Cancelling ctx closes the window.
func New(ctx context.Context, config *Config) *Application {
	ctx, cancel := context.WithCancel(ctx)

	fyneApp := config.App
	if fyneApp == nil {
		fyneApp = app.NewWithID("org.codeberg.snonux.estflash")
	}

	a := &Application{
		app:    fyneApp,
		config: config,
		log:    logging.OrNop(config.Log).Named("gui"),
		ctx:    ctx,
		cancel: cancel,
	}

	a.setupUI()
	config.Session.OnChange(func(s session.State) {
		fyne.Do(func() { a.render(s) })
	})
	a.render(config.Session.Snapshot())

	// Load the first deck once the event loop runs
	a.app.Lifecycle().SetOnStarted(func() {
		go config.Session.Start(a.ctx)
	})

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("estflash v%s - Estonian Flashcards", internal.Version))
	a.window.Resize(fyne.NewSize(640, 520))

	a.cardDisplay = NewCardDisplay()
	a.audioControls = NewAudioControls(a.onListen, a.onStopAudio)

	a.progressLabel = widget.NewLabel("")
	a.statsLabel = widget.NewLabel("")
	a.statsLabel.TextStyle = fyne.TextStyle{Italic: true}

	// Create action buttons (tooltips will be set after tooltip layer is created)
	a.revealButton = ttwidget.NewButtonWithIcon("Show translation", theme.VisibilityIcon(), a.onReveal)
	a.revealButton.Importance = widget.HighImportance
	a.knewButton = ttwidget.NewButtonWithIcon("I knew it", theme.ConfirmIcon(), func() { a.onJudge(true) })
	a.knewButton.Importance = widget.SuccessImportance
	a.didntKnowButton = ttwidget.NewButtonWithIcon("I didn't know", theme.CancelIcon(), func() { a.onJudge(false) })
	a.didntKnowButton.Importance = widget.DangerImportance
	a.refreshButton = ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.onRefresh)
	a.helpButton = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	toolbar := container.NewHBox(
		a.progressLabel,
		layout.NewSpacer(),
		a.statsLabel,
		widget.NewSeparator(),
		a.refreshButton,
		a.helpButton,
	)

	actions := container.NewHBox(
		layout.NewSpacer(),
		a.revealButton,
		a.didntKnowButton,
		a.knewButton,
		layout.NewSpacer(),
	)

	studyContent := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		container.NewVBox(actions, widget.NewSeparator(), a.audioControls),
		nil, nil,
		a.cardDisplay,
	)

	a.importView = NewImportView(a.ctx, a.config.Import, a.window, a.onImported)

	a.studyTab = container.NewTabItemWithIcon("Study", theme.DocumentIcon(), studyContent)
	a.importTab = container.NewTabItemWithIcon("Import", theme.UploadIcon(), container.NewPadded(a.importView))
	a.tabs = container.NewAppTabs(a.studyTab, a.importTab)
	if a.config.Logs != nil {
		a.tabs.Append(container.NewTabItemWithIcon("Log", theme.ListIcon(), NewLogViewer(a.config.Logs)))
	}

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(a.tabs, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.log.Debug("window closed")
		a.closed.Store(true)
		a.cancel()
		if a.config.Player != nil {
			a.config.Player.Stop()
		}
	})

	a.setupKeyboardShortcuts()
}

func (a *Application) setupTooltips() {
	a.revealButton.SetToolTip("Show translation (s / space)")
	a.knewButton.SetToolTip("I knew it (y)")
	a.didntKnowButton.SetToolTip("I didn't know (n)")
	a.refreshButton.SetToolTip("Load cards again (r)")
	a.helpButton.SetToolTip("Show hotkeys (h)")
	a.importView.setupTooltips()
}

// Run starts the GUI application and blocks until the window is closed
func (a *Application) Run() {
	stop := a.closeOnDone()
	defer stop()
	a.window.ShowAndRun()
}

// closeOnDone closes the window once the application context is done
func (a *Application) closeOnDone() (stop func() bool) {
	return context.AfterFunc(a.ctx, func() {
		if a.closed.Load() {
			return
		}
		a.log.Info("interrupted, closing window")
		fyne.Do(a.window.Close)
	})
}

// render updates every study widget from s. Must run on the UI goroutine.
func (a *Application) render(s session.State) {
	a.cardDisplay.SetState(s)
	a.progressLabel.SetText(s.Progress())
	a.statsLabel.SetText(fmt.Sprintf("Correct: %d   Incorrect: %d", s.Stats.Correct, s.Stats.Incorrect))

	setEnabled(a.revealButton, s.Phase == session.PhaseReady)
	setEnabled(a.knewButton, s.Revealed())
	setEnabled(a.didntKnowButton, s.Revealed())
	setEnabled(a.refreshButton, s.Phase == session.PhaseEmpty)

	if card, ok := s.Current(); ok {
		a.audioControls.SetWord(card.Estonian)
	} else {
		a.audioControls.SetWord("")
	}
}

// Controller calls may block on the network, so they run off the UI goroutine

func (a *Application) onReveal() {
	go a.config.Session.Reveal(a.ctx)
}

func (a *Application) onJudge(correct bool) {
	go a.config.Session.Judge(a.ctx, correct)
}

func (a *Application) onListen() {
	go a.config.Session.Listen(a.ctx)
}

func (a *Application) onRefresh() {
	go a.config.Session.Refresh(a.ctx)
}

func (a *Application) onStopAudio() {
	if a.config.Player != nil {
		a.config.Player.Stop()
	}
}

// onImported reloads the study tab when it is waiting for words
func (a *Application) onImported() {
	if a.config.Session.Snapshot().Phase == session.PhaseEmpty {
		a.log.Info("reloading cards after import")
		a.onRefresh()
	}
}

// setupKeyboardShortcuts configures keyboard shortcuts
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
			return
		}
		a.handleShortcutKey(ev.Name)
	})
}

// handleShortcutKey handles the actual shortcut action
func (a *Application) handleShortcutKey(key fyne.KeyName) {
	switch key {
	case fyne.KeyH:
		a.onShowHotkeys()
		return
	case fyne.KeyQ:
		a.window.Close()
		return
	}

	if a.tabs.Selected() == a.importTab {
		switch key {
		case fyne.KeyO:
			a.importView.onChoose()
		case fyne.KeyU:
			a.importView.onUpload()
		}
		return
	}
	if a.tabs.Selected() != a.studyTab {
		return
	}

	switch key {
	case fyne.KeyS, fyne.KeySpace, fyne.KeyReturn:
		if !a.revealButton.Disabled() {
			a.onReveal()
		}
	case fyne.KeyY, fyne.KeyRight:
		if !a.knewButton.Disabled() {
			a.onJudge(true)
		}
	case fyne.KeyN, fyne.KeyLeft:
		if !a.didntKnowButton.Disabled() {
			a.onJudge(false)
		}
	case fyne.KeyL, fyne.KeyP:
		a.audioControls.Listen()
	case fyne.KeyR:
		if !a.refreshButton.Disabled() {
			a.onRefresh()
		}
	}
}

// onShowHotkeys shows the keyboard shortcuts dialog
func (a *Application) onShowHotkeys() {
	hotkeys := `## Study

**s / space / enter** Show translation  
**y / →** I knew it  
**n / ←** I didn't know  
**l / p** Listen again  
**r** Load cards again (when no cards are shown)

## Import

**o** Choose a word list  
**u** Upload it

## General

**h** Show this help  
**q** Quit application  
**Esc** Leave the focused field`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(420, 360))

	dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window).Show()
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
