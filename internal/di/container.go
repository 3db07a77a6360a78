package di

import (
	"fmt"

	"uiprobe/internal/application/port/input"
	"uiprobe/internal/application/port/output"
	"uiprobe/internal/infrastructure/browser/rod"
	"uiprobe/internal/infrastructure/env"
	"uiprobe/internal/infrastructure/logger"
	"uiprobe/internal/usecase/runner"
	"uiprobe/internal/usecase/scenarios"
)

type Container struct {
	Config   env.SuiteConfig
	Logger   output.LoggerPort
	Sessions output.SessionFactoryPort
	Suite    []input.Scenario
	Runner   input.SuiteRunner
}

type Options struct {
	BaseURL string // overrides the configured base address when set
	Debug   bool
	Console bool
}

func NewContainer(opts Options) (*Container, error) {
	envService := env.NewEnvService()
	cfg := env.LoadSuiteConfig(envService)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no base url configured (UIPROBE_BASE_URL or --base-url)")
	}

	log, err := logger.NewLoggerAdapter(logger.Options{
		Debug:   opts.Debug,
		Console: opts.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.BaseURL = cfg.BaseURL
	browserCfg.Headless = cfg.Headless
	browserCfg.Timeout = cfg.ActionTimeout
	factory := rod.NewSessionFactory(browserCfg, log)

	run := runner.New(factory, log, runner.Options{
		Workers:         cfg.Workers,
		Retries:         cfg.Retries,
		ScenarioTimeout: cfg.ScenarioTimeout,
		Artifacts:       runner.ArtifactPolicy(cfg.Artifacts),
		ArtifactsDir:    cfg.ArtifactsDir,
	})

	return &Container{
		Config:   cfg,
		Logger:   log,
		Sessions: factory,
		Suite:    scenarios.Suite(cfg.FixturesDir),
		Runner:   run,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
