package output

import (
	"context"

	"uiprobe/internal/domain/entity"
)

// SessionPort is one isolated driver session. A session is exclusively owned
// by one scenario for its lifetime; secondary surfaces opened along the way
// are tracked and closed at teardown.
type SessionPort interface {
	// Surface returns the session's primary surface.
	Surface() SurfacePort

	// Adopt registers a secondary surface (e.g. resolved from a
	// surface-opened event) so teardown can close it.
	Adopt(s SurfacePort)

	// Resolve turns the payload of a surface-opened event into a usable
	// surface, already adopted.
	Resolve(ctx context.Context, ev *entity.AsyncEvent) (SurfacePort, error)

	// DownloadDir is the session-scoped transient storage for downloads.
	DownloadDir() string

	Close() error
}

// SessionFactoryPort constructs one fresh, isolated session per scenario.
type SessionFactoryPort interface {
	NewSession(ctx context.Context) (SessionPort, error)
}
