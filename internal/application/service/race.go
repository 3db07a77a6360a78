package service

import (
	"context"
	"fmt"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/domain/entity"
)

// To observe an asynchronous side effect X caused by action A, the listener
// for X must be registered before A is issued, and both the listener and A's
// completion must be joined, never awaited sequentially with the listener
// second. Registering after triggering is a lost-wakeup race: the event can
// fire and vanish before anyone listens.
//
// AwaitBoth and Expect encode that ordering so it cannot be written wrong.

// AwaitBoth issues trigger against an already-armed expectation, then joins
// the expectation. The trigger's own failure is independent of the event and
// is reported first. An unarmed expectation is rejected with
// *entity.LostEventError rather than silently racing.
func AwaitBoth(ctx context.Context, exp output.ExpectationPort, kind entity.EventKind, trigger func() error) (*entity.AsyncEvent, error) {
	if exp == nil || !exp.Armed() {
		return nil, &entity.LostEventError{Kind: kind}
	}
	defer exp.Cancel()

	if err := trigger(); err != nil {
		return nil, fmt.Errorf("trigger for %s event: %w", kind, err)
	}

	ev, err := exp.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// EventSource is the slice of the surface port the protocol needs.
type EventSource interface {
	Expect(ctx context.Context, kind entity.EventKind) (output.ExpectationPort, error)
}

// Expect is the one-shot form: subscribe on the source, then trigger, then
// join. Callers that always use Expect cannot get the ordering wrong.
func Expect(ctx context.Context, s EventSource, kind entity.EventKind, trigger func() error) (*entity.AsyncEvent, error) {
	exp, err := s.Expect(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("register %s listener: %w", kind, err)
	}
	return AwaitBoth(ctx, exp, kind, trigger)
}
