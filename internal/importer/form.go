package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/estflash/internal/logging"
)

const (
	MsgSelectFile = "Please select a file"
	MsgImporting  = "Importing words, please wait..."
)

var (
	// ErrNoFile is returned by Submit when no file was selected
	ErrNoFile = errors.New("no file selected")

	// ErrBusy is returned by Submit while an upload is in flight
	ErrBusy = errors.New("import already in progress")
)

// Uploader sends a word list to the flashcard service and returns the
// service's confirmation message
type Uploader interface {
	ImportWords(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Form is the state of the import view
type Form struct {
	uploader Uploader
	log      *zap.Logger

	mu        sync.Mutex
	file      string
	uploading bool
	message   string
	onChange  func()
}

// NewForm creates an empty import form
func NewForm(uploader Uploader, log *zap.Logger) *Form {
	return &Form{
		uploader: uploader,
		log:      logging.OrNop(log).Named("import"),
	}
}

// OnChange registers fn to be called after the form changed. fn runs on
// the goroutine that changed the form.
func (f *Form) OnChange(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

// Select sets the file to upload
func (f *Form) Select(path string) {
	f.update(func() { f.file = path })
}

// File returns the selected file path
func (f *Form) File() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file
}

// Uploading reports whether an upload is in flight
func (f *Form) Uploading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploading
}

// Message returns the current status message
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Submit uploads the selected file and blocks until the service answered.
// It returns the message left on the form and the failure, if any.
func (f *Form) Submit(ctx context.Context) (msg string, err error) {
	f.mu.Lock()
	switch {
	case f.uploading:
		f.mu.Unlock()
		return f.Message(), ErrBusy
	case f.file == "":
		f.message = MsgSelectFile
		listener := f.onChange
		f.mu.Unlock()
		if listener != nil {
			listener()
		}
		return MsgSelectFile, ErrNoFile
	}
	f.uploading = true
	f.message = MsgImporting
	path := f.file
	listener := f.onChange
	f.mu.Unlock()
	if listener != nil {
		listener()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import panicked: %v", r)
			f.log.Error("import panicked", zap.Any("panic", r))
		}
		if err != nil {
			msg = "Error: " + err.Error()
		}
		f.update(func() {
			f.uploading = false
			f.message = msg
		})
	}()

	msg, err = f.upload(ctx, path)
	if err != nil {
		f.log.Warn("import failed", zap.String("file", path), zap.Error(err))
		return msg, err
	}
	f.log.Info("import finished", zap.String("file", path), zap.String("message", msg))
	return msg, nil
}

func (f *Form) upload(ctx context.Context, path string) (string, error) {
	list, err := ReadWordList(path)
	if err != nil {
		return "", err
	}

	f.log.Debug("uploading word list", zap.String("file", path), zap.Int("words", list.Words))
	return f.uploader.ImportWords(ctx, filepath.Base(path), bytes.NewReader(list.Content))
}

func (f *Form) update(fn func()) {
	f.mu.Lock()
	fn()
	listener := f.onChange
	f.mu.Unlock()

	if listener != nil {
		listener()
	}
}
