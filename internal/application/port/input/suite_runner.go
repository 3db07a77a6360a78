package input

import (
	"context"
	"time"

	"uiprobe/internal/application/port/output"
)

// Scenario is one isolated flow: it receives a fresh session environment and
// either returns nil (pass) or the first terminal error (fail).
type Scenario struct {
	Name string
	Run  func(ctx context.Context, env ScenarioEnv) error
}

// ScenarioEnv is what the runner hands each scenario attempt. The session is
// exclusively owned by the attempt and torn down by the runner afterwards.
type ScenarioEnv struct {
	Session output.SessionPort
	Surface output.SurfacePort
	Logger  output.LoggerPort
}

// Result is the per-scenario outcome consumed by the report sink.
type Result struct {
	Name     string
	Passed   bool
	Attempts int
	Duration time.Duration
	Err      error
}

type Report struct {
	Results []Result
}

func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

type SuiteRunner interface {
	Run(ctx context.Context, scenarios []Scenario) (Report, error)
}
