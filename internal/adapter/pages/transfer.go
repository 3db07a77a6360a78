package pages

import (
	"context"
	"strings"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/application/service"
	"uiprobe/internal/domain/entity"
)

// FileTransferPage covers the upload and download surfaces.
type FileTransferPage struct {
	surface output.SurfacePort

	fileInput    entity.Locator
	submitButton entity.Locator
	uploadResult entity.Locator
	uploadedName entity.Locator
	downloadArea entity.Locator
}

func NewFileTransferPage(s output.SurfacePort) *FileTransferPage {
	return &FileTransferPage{
		surface:      s,
		fileInput:    entity.Css("#file-upload"),
		submitButton: entity.Css("#file-submit"),
		uploadResult: entity.Css("#upload-result"),
		uploadedName: entity.Css("#uploaded-files"),
		downloadArea: entity.Css("#downloads"),
	}
}

func (p *FileTransferPage) OpenUpload(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/upload")
}

func (p *FileTransferPage) OpenDownload(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/download")
}

// Upload attaches path to the form input directly and submits.
func (p *FileTransferPage) Upload(ctx context.Context, path string) error {
	if err := p.surface.SetFiles(ctx, p.fileInput, []string{path}); err != nil {
		return err
	}
	_, err := service.Expect(ctx, p.surface, entity.EventNavigation, func() error {
		return p.surface.Click(ctx, p.submitButton)
	})
	return err
}

// UploadViaChooser drives the native file dialog instead: the interception
// is armed before the click that opens the dialog.
func (p *FileTransferPage) UploadViaChooser(ctx context.Context, path string) error {
	exp, err := p.surface.ExpectFileChooser(ctx, []string{path})
	if err != nil {
		return err
	}
	if _, err := service.AwaitBoth(ctx, exp, entity.EventFileChooser, func() error {
		return p.surface.Click(ctx, p.fileInput)
	}); err != nil {
		return err
	}
	_, err = service.Expect(ctx, p.surface, entity.EventNavigation, func() error {
		return p.surface.Click(ctx, p.submitButton)
	})
	return err
}

// UploadNotice reads the banner shown once an upload completed.
func (p *FileTransferPage) UploadNotice(ctx context.Context) (string, error) {
	text, err := p.surface.Text(ctx, p.uploadResult)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// UploadedName returns the filename echoed back after an upload.
func (p *FileTransferPage) UploadedName(ctx context.Context) (string, error) {
	text, err := p.surface.Text(ctx, p.uploadedName)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Download clicks the named link with a download subscription already
// active, and returns the resolved event (artifact plus source URL).
func (p *FileTransferPage) Download(ctx context.Context, name string) (*entity.AsyncEvent, error) {
	link := p.downloadArea.ChildR("a.download-link", "^"+name+"$")
	return service.Expect(ctx, p.surface, entity.EventDownload, func() error {
		return p.surface.Click(ctx, link)
	})
}

func (p *FileTransferPage) Links(ctx context.Context) ([]string, error) {
	return p.surface.Texts(ctx, p.downloadArea.Child("a.download-link"))
}
