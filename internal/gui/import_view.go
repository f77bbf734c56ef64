package gui

import (
	"context"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/estflash/internal/importer"
)

// ImportView uploads word lists to the service
type ImportView struct {
	widget.BaseWidget

	container    *fyne.Container
	fileLabel    *widget.Label
	chooseButton *ttwidget.Button
	uploadButton *ttwidget.Button
	messageLabel *widget.Label

	form     *importer.Form
	window   fyne.Window
	ctx      context.Context
	imported func()
}

// NewImportView creates the import view. imported is called on the UI
// goroutine after a successful upload.
func NewImportView(ctx context.Context, form *importer.Form, window fyne.Window, imported func()) *ImportView {
	v := &ImportView{
		form:     form,
		window:   window,
		ctx:      ctx,
		imported: imported,
	}

	v.fileLabel = widget.NewLabel("No file selected")
	v.fileLabel.Truncation = fyne.TextTruncateEllipsis

	v.chooseButton = ttwidget.NewButtonWithIcon("Choose file...", theme.FolderOpenIcon(), v.onChoose)
	v.uploadButton = ttwidget.NewButtonWithIcon("Import", theme.UploadIcon(), v.onUpload)
	v.uploadButton.Importance = widget.HighImportance

	v.messageLabel = widget.NewLabel("")
	v.messageLabel.Wrapping = fyne.TextWrapWord

	help := widget.NewLabel("Upload a text file with one Estonian word per line.")
	help.Wrapping = fyne.TextWrapWord

	v.container = container.NewVBox(
		widget.NewLabelWithStyle("Import Estonian Words", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		help,
		container.NewBorder(nil, nil, v.chooseButton, nil, v.fileLabel),
		v.uploadButton,
		v.messageLabel,
	)

	form.OnChange(func() { fyne.Do(v.refresh) })

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *ImportView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

func (v *ImportView) setupTooltips() {
	v.chooseButton.SetToolTip("Select a .txt word list (o)")
	v.uploadButton.SetToolTip("Upload the selected file (u)")
}

func (v *ImportView) onChoose() {
	if v.form.Uploading() {
		return
	}

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		if reader == nil {
			return // cancelled
		}
		defer reader.Close()
		v.form.Select(reader.URI().Path())
	}, v.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	fileDialog.Show()
}

func (v *ImportView) onUpload() {
	if v.form.Uploading() {
		return
	}

	go func() {
		if _, err := v.form.Submit(v.ctx); err == nil && v.imported != nil {
			fyne.Do(v.imported)
		}
	}()
}

// refresh renders the form. Must run on the UI goroutine.
func (v *ImportView) refresh() {
	if file := v.form.File(); file != "" {
		v.fileLabel.SetText(filepath.Base(file))
	} else {
		v.fileLabel.SetText("No file selected")
	}

	if v.form.Uploading() {
		v.uploadButton.Disable()
		v.chooseButton.Disable()
	} else {
		v.uploadButton.Enable()
		v.chooseButton.Enable()
	}

	v.messageLabel.SetText(v.form.Message())
}
