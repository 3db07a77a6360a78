package pages

import (
	"context"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/application/service"
	"uiprobe/internal/domain/entity"
)

// WindowsPage covers the surface that spawns secondary windows.
type WindowsPage struct {
	surface output.SurfacePort
	session output.SessionPort

	newWindowLink entity.Locator
	newTitle      entity.Locator
}

func NewWindowsPage(session output.SessionPort, s output.SurfacePort) *WindowsPage {
	return &WindowsPage{
		surface:       s,
		session:       session,
		newWindowLink: entity.Css("#new-window-link"),
		newTitle:      entity.Css("#new-window-title"),
	}
}

func (p *WindowsPage) Open(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/windows")
}

// OpenNewWindow clicks the spawning link with the surface-opened listener
// already registered and resolves the event into a tracked surface. The
// session closes it at teardown.
func (p *WindowsPage) OpenNewWindow(ctx context.Context) (output.SurfacePort, error) {
	ev, err := service.Expect(ctx, p.surface, entity.EventSurfaceOpened, func() error {
		return p.surface.Click(ctx, p.newWindowLink)
	})
	if err != nil {
		return nil, err
	}
	return p.session.Resolve(ctx, ev)
}

// NewWindowTitle reads the headline on an opened secondary surface.
func (p *WindowsPage) NewWindowTitle(ctx context.Context, opened output.SurfacePort) (string, error) {
	return opened.Text(ctx, p.newTitle)
}
