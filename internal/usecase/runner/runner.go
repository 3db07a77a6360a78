// Package runner executes scenarios against isolated driver sessions.
// Whole-scenario retry lives here, as a boundary policy: components below
// never retry infrastructure errors themselves.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"uiprobe/internal/application/port/input"
	"uiprobe/internal/application/port/output"
)

type ArtifactPolicy string

const (
	ArtifactsOff          ArtifactPolicy = "off"
	ArtifactsOnFailure    ArtifactPolicy = "on-failure"
	ArtifactsOnFirstRetry ArtifactPolicy = "on-first-retry"
	ArtifactsAlways       ArtifactPolicy = "always"
)

type Options struct {
	Workers         int
	Retries         int // re-executions after a failed attempt, default 0
	ScenarioTimeout time.Duration
	Artifacts       ArtifactPolicy
	ArtifactsDir    string
}

var _ input.SuiteRunner = (*Runner)(nil)

type Runner struct {
	factory output.SessionFactoryPort
	log     output.LoggerPort
	opts    Options
}

func New(factory output.SessionFactoryPort, log output.LoggerPort, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ScenarioTimeout <= 0 {
		opts.ScenarioTimeout = 2 * time.Minute
	}
	if opts.Artifacts == "" {
		opts.Artifacts = ArtifactsOnFailure
	}
	return &Runner{factory: factory, log: log, opts: opts}
}

// Run executes scenarios on up to Workers parallel workers. Each attempt
// gets a fresh session; a failing scenario never cancels its peers.
func (r *Runner) Run(ctx context.Context, scenarios []input.Scenario) (input.Report, error) {
	results := make([]input.Result, len(scenarios))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i, sc := range scenarios {
		g.Go(func() error {
			res := r.runScenario(gctx, sc)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return input.Report{}, err
	}
	return input.Report{Results: results}, nil
}

func (r *Runner) runScenario(ctx context.Context, sc input.Scenario) input.Result {
	log := r.log.WithField("scenario", sc.Name)
	start := time.Now()

	var err error
	attempts := 0
	for attempts <= r.opts.Retries {
		attempts++
		err = r.runAttempt(ctx, sc, attempts, log)
		if err == nil {
			break
		}
		log.Warn("scenario attempt failed", "attempt", attempts, "error", err)
		if ctx.Err() != nil {
			break
		}
	}

	res := input.Result{
		Name:     sc.Name,
		Passed:   err == nil,
		Attempts: attempts,
		Duration: time.Since(start),
		Err:      err,
	}
	if res.Passed {
		log.Info("scenario passed", "attempts", attempts, "duration", res.Duration.String())
	} else {
		log.Error("scenario failed", "attempts", attempts, "duration", res.Duration.String(), "error", err)
	}
	return res
}

// runAttempt scopes one session to one attempt: acquired here, released on
// every path out.
func (r *Runner) runAttempt(ctx context.Context, sc input.Scenario, attempt int, log output.LoggerPort) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.ScenarioTimeout)
	defer cancel()

	session, err := r.factory.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("session teardown failed", "error", cerr)
		}
	}()

	env := input.ScenarioEnv{
		Session: session,
		Surface: session.Surface(),
		Logger:  log,
	}
	runErr := sc.Run(ctx, env)

	if r.shouldCapture(attempt, runErr) {
		r.capture(ctx, sc.Name, attempt, env.Surface, log)
	}
	return runErr
}

func (r *Runner) shouldCapture(attempt int, runErr error) bool {
	switch r.opts.Artifacts {
	case ArtifactsAlways:
		return true
	case ArtifactsOnFailure:
		return runErr != nil
	case ArtifactsOnFirstRetry:
		// capture once the scenario has entered retry territory
		return attempt == 2
	default:
		return false
	}
}

func (r *Runner) capture(ctx context.Context, name string, attempt int, surface output.SurfacePort, log output.LoggerPort) {
	shot, err := surface.Screenshot(ctx)
	if err != nil {
		log.Warn("artifact capture failed", "error", err)
		return
	}
	if err := os.MkdirAll(r.opts.ArtifactsDir, 0o755); err != nil {
		log.Warn("artifact dir", "error", err)
		return
	}
	file := filepath.Join(r.opts.ArtifactsDir,
		fmt.Sprintf("%s-attempt%d.%s", sanitize(name), attempt, shot.Format))
	if err := os.WriteFile(file, shot.Data, 0o644); err != nil {
		log.Warn("artifact write failed", "error", err)
		return
	}
	log.Info("artifact captured", "path", file)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
