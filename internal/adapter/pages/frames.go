package pages

import (
	"context"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
)

// FramesPage covers the iframe surface. Frame surfaces are resolved per
// read, not held.
type FramesPage struct {
	surface output.SurfacePort

	frame     entity.Locator
	frameText entity.Locator
}

func NewFramesPage(s output.SurfacePort) *FramesPage {
	return &FramesPage{
		surface:   s,
		frame:     entity.Css("#content-frame"),
		frameText: entity.Css("#frame-text"),
	}
}

func (p *FramesPage) Open(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/iframe")
}

func (p *FramesPage) FrameText(ctx context.Context) (string, error) {
	frame, err := p.surface.Frame(ctx, p.frame)
	if err != nil {
		return "", err
	}
	return frame.Text(ctx, p.frameText)
}
