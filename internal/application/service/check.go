package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"uiprobe/internal/domain/entity"
)

// Assertions only poll and compare; they never mutate the surface. Actions
// live on page objects, assertions here.

const defaultPollInterval = 100 * time.Millisecond

// Eventually polls cond until it reports done, the timeout elapses
// (*entity.TimeoutError) or cond itself fails.
func Eventually(ctx context.Context, op string, timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		done, err := cond(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return &entity.TimeoutError{Op: op, Timeout: timeout, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

// TextReader is the slice of the surface port the text assertions need.
type TextReader interface {
	Text(ctx context.Context, loc entity.Locator) (string, error)
}

// URLReader reports the current surface address.
type URLReader interface {
	CurrentURL() string
}

// TextContains polls loc's text until it contains want. On expiry it reports
// an assertion failure carrying the last observed value.
func TextContains(ctx context.Context, s TextReader, loc entity.Locator, want string, timeout time.Duration) error {
	var got string
	err := Eventually(ctx, "text of "+loc.Path(), timeout, func(ctx context.Context) (bool, error) {
		text, err := s.Text(ctx, loc)
		if err != nil {
			return false, nil // element may not be attached yet
		}
		got = text
		return strings.Contains(text, want), nil
	})
	var to *entity.TimeoutError
	if errors.As(err, &to) {
		return &entity.AssertionFailure{
			What: "text of " + loc.Path(),
			Want: fmt.Sprintf("containing %q", want),
			Got:  fmt.Sprintf("%q", got),
		}
	}
	return err
}

// URLContains polls the surface URL until it contains want.
func URLContains(ctx context.Context, s URLReader, want string, timeout time.Duration) error {
	var got string
	err := Eventually(ctx, "surface url", timeout, func(ctx context.Context) (bool, error) {
		got = s.CurrentURL()
		return strings.Contains(got, want), nil
	})
	var to *entity.TimeoutError
	if errors.As(err, &to) {
		return &entity.AssertionFailure{
			What: "surface url",
			Want: fmt.Sprintf("containing %q", want),
			Got:  fmt.Sprintf("%q", got),
		}
	}
	return err
}

// Soft collects assertion failures without stopping the scenario. The
// scenario is still failed as a whole if anything was collected.
type Soft struct {
	failures []error
}

// Check records err if non-nil and reports whether the check passed.
func (s *Soft) Check(err error) bool {
	if err != nil {
		s.failures = append(s.failures, err)
		return false
	}
	return true
}

func (s *Soft) Failed() int { return len(s.failures) }

// Err returns all collected failures joined, or nil.
func (s *Soft) Err() error {
	return errors.Join(s.failures...)
}
