package pages

import (
	"context"
	"strings"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
)

// DragDropPage covers the swappable-columns surface. The target's swap
// semantics (content swap, direction-keyed, self-drop is a no-op) are an
// external contract: this page only performs drags and reads slots, it does
// not assume what the script will do.
type DragDropPage struct {
	surface output.SurfacePort

	columnA entity.Locator
	columnB entity.Locator
	headerA entity.Locator
	headerB entity.Locator
}

func NewDragDropPage(s output.SurfacePort) *DragDropPage {
	a := entity.Css("#column-a")
	b := entity.Css("#column-b")
	return &DragDropPage{
		surface: s,
		columnA: a,
		columnB: b,
		headerA: a.Child("header"),
		headerB: b.Child("header"),
	}
}

func (p *DragDropPage) Open(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/dragdrop")
}

func (p *DragDropPage) DragAOntoB(ctx context.Context) error {
	return p.surface.DragTo(ctx, p.columnA, p.columnB)
}

func (p *DragDropPage) DragBOntoA(ctx context.Context) error {
	return p.surface.DragTo(ctx, p.columnB, p.columnA)
}

func (p *DragDropPage) DragAOntoA(ctx context.Context) error {
	return p.surface.DragTo(ctx, p.columnA, p.columnA)
}

// SlotTexts reads both slots in one call, trimmed.
func (p *DragDropPage) SlotTexts(ctx context.Context) (a, b string, err error) {
	a, err = p.surface.Text(ctx, p.headerA)
	if err != nil {
		return "", "", err
	}
	b, err = p.surface.Text(ctx, p.headerB)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(a), strings.TrimSpace(b), nil
}
