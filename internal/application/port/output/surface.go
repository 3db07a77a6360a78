package output

import (
	"context"

	"uiprobe/internal/domain/entity"
)

// SurfacePort is one addressable browsing surface (tab, window or frame).
// All element operations take a Locator and re-resolve it at call time.
type SurfacePort interface {
	// Navigate loads path (absolute, or relative to the session base URL)
	// and waits for the load to settle. Fails with *entity.NavigationError.
	Navigate(ctx context.Context, path string) error

	Click(ctx context.Context, loc entity.Locator) error
	Fill(ctx context.Context, loc entity.Locator, text string) error
	Hover(ctx context.Context, loc entity.Locator) error
	PressEnter(ctx context.Context, loc entity.Locator) error
	SetFiles(ctx context.Context, loc entity.Locator, paths []string) error
	DragTo(ctx context.Context, from, to entity.Locator) error

	Text(ctx context.Context, loc entity.Locator) (string, error)
	Texts(ctx context.Context, loc entity.Locator) ([]string, error)
	Count(ctx context.Context, loc entity.Locator) (int, error)
	Visible(ctx context.Context, loc entity.Locator) (bool, error)
	Attribute(ctx context.Context, loc entity.Locator, name string) (string, error)
	OuterHTML(ctx context.Context, loc entity.Locator) (string, error)

	// Expect registers a listener for the next event of the given kind and
	// returns it already armed. Registration happens before Expect returns,
	// so callers can safely issue the triggering action afterwards.
	Expect(ctx context.Context, kind entity.EventKind) (ExpectationPort, error)

	// ExpectFileChooser arms an interception for the next native file
	// chooser dialog; when the dialog opens, paths are supplied to it and
	// the expectation resolves.
	ExpectFileChooser(ctx context.Context, paths []string) (ExpectationPort, error)

	// Frame returns a surface scoped to the iframe matched by loc.
	Frame(ctx context.Context, loc entity.Locator) (SurfacePort, error)

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	CurrentURL() string
	Close() error
}

// ExpectationPort is a pending async event: registered, not yet resolved.
// It resolves at most once and is never reused.
type ExpectationPort interface {
	// Armed reports whether the underlying listener is registered. An
	// expectation that arms lazily on Wait is a lost-wakeup defect; the
	// race protocol rejects it.
	Armed() bool

	// Wait blocks until the event resolves, the bounded window elapses
	// (*entity.TimeoutError) or ctx is done.
	Wait(ctx context.Context) (*entity.AsyncEvent, error)

	// Cancel releases the listener without consuming it. Safe to call
	// after Wait.
	Cancel()
}
