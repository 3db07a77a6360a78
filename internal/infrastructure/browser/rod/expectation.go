package rod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
)

var _ output.ExpectationPort = (*expectation)(nil)

type eventResult struct {
	ev  *entity.AsyncEvent
	err error
}

// expectation wraps one of rod's register-then-wait closures. The underlying
// listener subscribes inside Expect, before the closure is handed back, so
// the triggering action can never outrun the registration.
type expectation struct {
	kind    entity.EventKind
	timeout time.Duration
	results chan eventResult

	mu       sync.Mutex
	consumed bool
}

func (e *expectation) Armed() bool { return e.results != nil }

func (e *expectation) Wait(ctx context.Context) (*entity.AsyncEvent, error) {
	e.mu.Lock()
	if e.consumed {
		e.mu.Unlock()
		return nil, fmt.Errorf("expectation for %s already consumed", e.kind)
	}
	e.consumed = true
	e.mu.Unlock()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-e.results:
		if res.err != nil {
			return nil, &entity.TimeoutError{Op: "await " + string(e.kind), Timeout: e.timeout, Err: res.err}
		}
		return res.ev, nil
	case <-timer.C:
		return nil, &entity.TimeoutError{Op: "await " + string(e.kind), Timeout: e.timeout, Err: errors.New("no matching event")}
	case <-ctx.Done():
		return nil, &entity.TimeoutError{Op: "await " + string(e.kind), Timeout: e.timeout, Err: ctx.Err()}
	}
}

func (e *expectation) Cancel() {
	e.mu.Lock()
	e.consumed = true
	e.mu.Unlock()
}

// Expect registers a listener for the next event of kind on this surface.
// The rod waiters used underneath subscribe synchronously, which is what
// makes the protocol race-safe.
func (s *Surface) Expect(ctx context.Context, kind entity.EventKind) (output.ExpectationPort, error) {
	e := &expectation{
		kind:    kind,
		timeout: s.session.cfg.EventTimeout,
		results: make(chan eventResult, 1),
	}

	// Waiters get a slightly longer deadline than the expectation itself so
	// Wait's timer decides timeouts, not a racing closure return.
	waiterWindow := e.timeout + 2*time.Second

	switch kind {
	case entity.EventSurfaceOpened:
		wait := s.page.Context(ctx).Timeout(waiterWindow).WaitOpen()
		go func() {
			opened, err := wait()
			if err != nil {
				e.results <- eventResult{err: err}
				return
			}
			id := string(opened.TargetID)
			s.session.rememberOpened(id, opened)
			e.results <- eventResult{ev: &entity.AsyncEvent{
				Kind:      entity.EventSurfaceOpened,
				SurfaceID: id,
			}}
		}()

	case entity.EventDownload:
		wait := s.session.browser.Context(ctx).Timeout(waiterWindow).WaitDownload(s.session.downloadDir)
		go func() {
			info := wait()
			if info == nil {
				e.results <- eventResult{err: errors.New("download wait aborted")}
				return
			}
			path := filepath.Join(s.session.downloadDir, info.GUID)
			var size int64
			if fi, err := os.Stat(path); err == nil {
				size = fi.Size()
			}
			e.results <- eventResult{ev: &entity.AsyncEvent{
				Kind: entity.EventDownload,
				URL:  info.URL,
				Download: &entity.Download{
					SuggestedName: info.SuggestedFilename,
					Path:          path,
					Size:          size,
				},
			}}
		}()

	case entity.EventNavigation:
		wait := s.page.Context(ctx).Timeout(waiterWindow).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
		go func() {
			wait()
			e.results <- eventResult{ev: &entity.AsyncEvent{
				Kind: entity.EventNavigation,
				URL:  s.CurrentURL(),
			}}
		}()

	case entity.EventFileChooser:
		return nil, fmt.Errorf("file chooser expectations carry payload: use ExpectFileChooser")

	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}

	return e, nil
}

// ExpectFileChooser arms interception of the next native file dialog; when
// it opens, paths are fed to it and the expectation resolves.
func (s *Surface) ExpectFileChooser(ctx context.Context, paths []string) (output.ExpectationPort, error) {
	e := &expectation{
		kind:    entity.EventFileChooser,
		timeout: s.session.cfg.EventTimeout,
		results: make(chan eventResult, 1),
	}

	choose, err := s.page.Context(ctx).Timeout(e.timeout + 2*time.Second).HandleFileDialog()
	if err != nil {
		return nil, fmt.Errorf("intercept file dialog: %w", err)
	}
	go func() {
		if err := choose(paths); err != nil {
			e.results <- eventResult{err: err}
			return
		}
		e.results <- eventResult{ev: &entity.AsyncEvent{Kind: entity.EventFileChooser}}
	}()
	return e, nil
}
