package env

import (
	"runtime"
	"time"
)

// ArtifactPolicy controls when the runner captures screenshots.
type ArtifactPolicy string

const (
	ArtifactsOff          ArtifactPolicy = "off"
	ArtifactsOnFailure    ArtifactPolicy = "on-failure"
	ArtifactsOnFirstRetry ArtifactPolicy = "on-first-retry"
	ArtifactsAlways       ArtifactPolicy = "always"
)

// SuiteConfig is the recognized configuration surface. Loaded once at
// process start, read-only thereafter; scenarios never mutate it.
type SuiteConfig struct {
	BaseURL         string
	ActionTimeout   time.Duration
	ScenarioTimeout time.Duration
	Workers         int // 0 means auto (GOMAXPROCS)
	Retries         int // whole-scenario re-executions, default 0
	Artifacts       ArtifactPolicy
	ArtifactsDir    string
	FixturesDir     string
	Headless        bool
}

// LoadSuiteConfig reads the suite configuration from the environment.
func LoadSuiteConfig(svc *EnvService) SuiteConfig {
	cfg := SuiteConfig{
		BaseURL:         svc.Get("UIPROBE_BASE_URL"),
		ActionTimeout:   svc.GetDuration("UIPROBE_ACTION_TIMEOUT", 10*time.Second),
		ScenarioTimeout: svc.GetDuration("UIPROBE_SCENARIO_TIMEOUT", 2*time.Minute),
		Workers:         svc.GetInt("UIPROBE_WORKERS", 0),
		Retries:         svc.GetInt("UIPROBE_RETRIES", 0),
		Artifacts:       ArtifactPolicy(svc.GetWithDefault("UIPROBE_ARTIFACTS", string(ArtifactsOnFailure))),
		ArtifactsDir:    svc.GetWithDefault("UIPROBE_ARTIFACTS_DIR", "artifacts"),
		FixturesDir:     svc.GetWithDefault("UIPROBE_FIXTURES_DIR", "testdata"),
		Headless:        svc.GetBool("UIPROBE_HEADLESS", true),
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	switch cfg.Artifacts {
	case ArtifactsOff, ArtifactsOnFailure, ArtifactsOnFirstRetry, ArtifactsAlways:
	default:
		cfg.Artifacts = ArtifactsOnFailure
	}
	return cfg
}
