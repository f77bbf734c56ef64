package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogWriter keeps the most recent log lines for the log viewer. It is
// handed to the logger as an extra output before the GUI exists.
type LogWriter struct {
	mu          sync.Mutex
	messages    []string // newest first
	maxMessages int
	onChange    func()
}

// NewLogWriter creates a writer keeping at most maxMessages lines
func NewLogWriter(maxMessages int) *LogWriter {
	if maxMessages <= 0 {
		maxMessages = 1000
	}
	return &LogWriter{maxMessages: maxMessages}
}

// Write implements io.Writer. Each line becomes one message.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		w.messages = append([]string{line}, w.messages...)
	}
	if len(w.messages) > w.maxMessages {
		w.messages = w.messages[:w.maxMessages]
	}
	listener := w.onChange
	w.mu.Unlock()

	if listener != nil {
		listener()
	}
	return len(p), nil
}

// Messages returns the kept lines, newest first
func (w *LogWriter) Messages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.messages...)
}

// Clear drops all kept lines
func (w *LogWriter) Clear() {
	w.mu.Lock()
	w.messages = w.messages[:0]
	listener := w.onChange
	w.mu.Unlock()

	if listener != nil {
		listener()
	}
}

func (w *LogWriter) setOnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// LogViewer is a widget that displays log messages
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
	writer     *LogWriter
}

// NewLogViewer creates a log viewer showing the lines of w
func NewLogViewer(w *LogWriter) *LogViewer {
	v := &LogViewer{writer: w}

	// Create log entry (read-only multiline)
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(0, 180))
	v.scrollView.Direction = container.ScrollBoth

	clearButton := widget.NewButton("Clear", w.Clear)

	v.container = container.NewBorder(
		container.NewBorder(nil, nil, widget.NewLabel("Log messages (newest first):"), clearButton),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	w.setOnChange(func() {
		fyne.Do(v.refreshText)
	})
	v.refreshText()

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

func (v *LogViewer) refreshText() {
	v.logEntry.SetText(strings.Join(v.writer.Messages(), "\n"))

	// Keep scroll at top to show newest messages
	v.scrollView.Offset = fyne.NewPos(0, 0)
	v.scrollView.Refresh()
}
