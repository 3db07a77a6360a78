package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"regexp"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
)

var _ output.SurfacePort = (*Surface)(nil)

// Surface adapts one *rod.Page (tab, window or frame) to the surface port.
// Locators are re-resolved through the page on every call; the adapter never
// holds element handles between calls.
type Surface struct {
	session *Session
	page    *rod.Page
}

func newSurface(s *Session, page *rod.Page) *Surface {
	return &Surface{session: s, page: page}
}

func (s *Surface) Navigate(ctx context.Context, path string) error {
	target, err := s.session.resolveURL(path)
	if err != nil {
		return &entity.NavigationError{URL: path, Err: err}
	}

	p := s.page.Context(ctx).Timeout(s.session.cfg.Timeout)
	if err := p.Navigate(target); err != nil {
		return &entity.NavigationError{URL: target, Err: err}
	}
	if err := p.WaitLoad(); err != nil {
		return &entity.NavigationError{URL: target, Err: err}
	}
	return nil
}

// resolve walks the locator's scope chain root-first, re-querying each hop.
func (s *Surface) resolve(ctx context.Context, loc entity.Locator) (*rod.Element, error) {
	if loc.IsZero() {
		return nil, fmt.Errorf("empty locator")
	}

	var chain []entity.Locator
	for cur := &loc; cur != nil; cur = cur.Scope {
		chain = append(chain, *cur)
	}

	p := s.page.Context(ctx).Timeout(s.session.cfg.Timeout)
	var el *rod.Element
	var err error
	for i := len(chain) - 1; i >= 0; i-- {
		step := chain[i]
		switch {
		case el == nil && step.Text == "":
			el, err = p.Element(step.Selector)
		case el == nil:
			el, err = p.ElementR(step.Selector, step.Text)
		case step.Text == "":
			el, err = el.Element(step.Selector)
		default:
			el, err = el.ElementR(step.Selector, step.Text)
		}
		if err != nil {
			return nil, s.locateError(loc, err)
		}
	}
	return el, nil
}

func (s *Surface) locateError(loc entity.Locator, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &entity.TimeoutError{
			Op:      "locate " + loc.Path(),
			Timeout: s.session.cfg.Timeout,
			Err:     err,
		}
	}
	return fmt.Errorf("element not found: %s: %w", loc.Path(), err)
}

// elements resolves all matches without waiting: zero matches is a valid
// result, not an error.
func (s *Surface) elements(ctx context.Context, loc entity.Locator) (rod.Elements, error) {
	p := s.page.Context(ctx).Timeout(s.session.cfg.Timeout)

	var els rod.Elements
	var err error
	if loc.Scope != nil {
		scope, rerr := s.resolve(ctx, *loc.Scope)
		if rerr != nil {
			return nil, rerr
		}
		els, err = scope.Elements(loc.Selector)
	} else {
		els, err = p.Elements(loc.Selector)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", loc.Path(), err)
	}

	if loc.Text == "" {
		return els, nil
	}
	re, err := regexp.Compile(loc.Text)
	if err != nil {
		return nil, fmt.Errorf("bad text filter %q: %w", loc.Text, err)
	}
	var filtered rod.Elements
	for _, el := range els {
		text, terr := el.Text()
		if terr == nil && re.MatchString(text) {
			filtered = append(filtered, el)
		}
	}
	return filtered, nil
}

func (s *Surface) Click(ctx context.Context, loc entity.Locator) error {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", loc.Path(), err)
	}
	return nil
}

func (s *Surface) Fill(ctx context.Context, loc entity.Locator, text string) error {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input into %s: %w", loc.Path(), err)
	}
	return nil
}

func (s *Surface) Hover(ctx context.Context, loc entity.Locator) error {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("hover %s: %w", loc.Path(), err)
	}
	return nil
}

func (s *Surface) PressEnter(ctx context.Context, loc entity.Locator) error {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("focus %s: %w", loc.Path(), err)
	}
	if err := s.page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

func (s *Surface) SetFiles(ctx context.Context, loc entity.Locator, paths []string) error {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SetFiles(paths); err != nil {
		return fmt.Errorf("set files on %s: %w", loc.Path(), err)
	}
	return nil
}

// DragTo presses on from, moves to to in small steps so the target's
// mouse-move handlers fire, and releases.
func (s *Surface) DragTo(ctx context.Context, from, to entity.Locator) error {
	src, err := s.resolve(ctx, from)
	if err != nil {
		return err
	}
	dst, err := s.resolve(ctx, to)
	if err != nil {
		return err
	}
	if err := src.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll %s into view: %w", from.Path(), err)
	}

	start, err := elementPoint(src)
	if err != nil {
		return fmt.Errorf("shape of %s: %w", from.Path(), err)
	}
	end, err := elementPoint(dst)
	if err != nil {
		return fmt.Errorf("shape of %s: %w", to.Path(), err)
	}

	mouse := s.page.Mouse
	if err := mouse.MoveTo(*start); err != nil {
		return fmt.Errorf("move to drag source: %w", err)
	}
	if err := mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("press on drag source: %w", err)
	}
	const steps = 12
	for i := 1; i <= steps; i++ {
		p := proto.Point{
			X: start.X + (end.X-start.X)*float64(i)/steps,
			Y: start.Y + (end.Y-start.Y)*float64(i)/steps,
		}
		if err := mouse.MoveTo(p); err != nil {
			_ = mouse.Up(proto.InputMouseButtonLeft, 1)
			return fmt.Errorf("drag move: %w", err)
		}
	}
	if err := mouse.Up(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("release drag: %w", err)
	}
	return nil
}

func elementPoint(el *rod.Element) (*proto.Point, error) {
	shape, err := el.Shape()
	if err != nil {
		return nil, err
	}
	p := shape.OnePointInside()
	if p == nil {
		return nil, errors.New("element has no visible area")
	}
	return p, nil
}

func (s *Surface) Text(ctx context.Context, loc entity.Locator) (string, error) {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("text of %s: %w", loc.Path(), err)
	}
	return text, nil
}

func (s *Surface) Texts(ctx context.Context, loc entity.Locator) ([]string, error) {
	els, err := s.elements(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("text of %s: %w", loc.Path(), err)
		}
		out = append(out, text)
	}
	return out, nil
}

func (s *Surface) Count(ctx context.Context, loc entity.Locator) (int, error) {
	els, err := s.elements(ctx, loc)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// Visible is best-effort: an element that cannot be found within the bounded
// window reports as not visible rather than failing the caller.
func (s *Surface) Visible(ctx context.Context, loc entity.Locator) (bool, error) {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		var to *entity.TimeoutError
		if errors.As(err, &to) {
			return false, nil
		}
		return false, err
	}
	visible, err := el.Visible()
	if err != nil {
		return false, fmt.Errorf("visibility of %s: %w", loc.Path(), err)
	}
	return visible, nil
}

func (s *Surface) Attribute(ctx context.Context, loc entity.Locator, name string) (string, error) {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return "", err
	}
	val, err := el.Attribute(name)
	if err != nil {
		return "", fmt.Errorf("attribute %q of %s: %w", name, loc.Path(), err)
	}
	if val == nil {
		return "", nil
	}
	return *val, nil
}

func (s *Surface) OuterHTML(ctx context.Context, loc entity.Locator) (string, error) {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return "", err
	}
	raw, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("markup of %s: %w", loc.Path(), err)
	}
	return raw, nil
}

func (s *Surface) Frame(ctx context.Context, loc entity.Locator) (output.SurfacePort, error) {
	el, err := s.resolve(ctx, loc)
	if err != nil {
		return nil, err
	}
	framePage, err := el.Frame()
	if err != nil {
		return nil, fmt.Errorf("frame of %s: %w", loc.Path(), err)
	}
	return newSurface(s.session, framePage), nil
}

func (s *Surface) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > 1280 {
		img = imaging.Resize(img, 1280, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (s *Surface) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (s *Surface) Close() error {
	return s.page.Close()
}
