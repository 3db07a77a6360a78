package env

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearSuiteEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"UIPROBE_BASE_URL", "UIPROBE_ACTION_TIMEOUT", "UIPROBE_SCENARIO_TIMEOUT",
		"UIPROBE_WORKERS", "UIPROBE_RETRIES", "UIPROBE_ARTIFACTS",
		"UIPROBE_ARTIFACTS_DIR", "UIPROBE_FIXTURES_DIR", "UIPROBE_HEADLESS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSuiteConfig_Defaults(t *testing.T) {
	clearSuiteEnv(t)

	cfg := LoadSuiteConfig(&EnvService{})

	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.ActionTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ScenarioTimeout)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.Zero(t, cfg.Retries)
	assert.Equal(t, ArtifactsOnFailure, cfg.Artifacts)
	assert.Equal(t, "artifacts", cfg.ArtifactsDir)
	assert.Equal(t, "testdata", cfg.FixturesDir)
	assert.True(t, cfg.Headless)
}

func TestLoadSuiteConfig_Overrides(t *testing.T) {
	clearSuiteEnv(t)
	t.Setenv("UIPROBE_BASE_URL", "http://127.0.0.1:9515")
	t.Setenv("UIPROBE_ACTION_TIMEOUT", "3s")
	t.Setenv("UIPROBE_WORKERS", "2")
	t.Setenv("UIPROBE_RETRIES", "1")
	t.Setenv("UIPROBE_ARTIFACTS", "on-first-retry")
	t.Setenv("UIPROBE_HEADLESS", "false")

	cfg := LoadSuiteConfig(&EnvService{})

	assert.Equal(t, "http://127.0.0.1:9515", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.ActionTimeout)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1, cfg.Retries)
	assert.Equal(t, ArtifactsOnFirstRetry, cfg.Artifacts)
	assert.False(t, cfg.Headless)
}

func TestLoadSuiteConfig_InvalidValuesFallBack(t *testing.T) {
	clearSuiteEnv(t)
	t.Setenv("UIPROBE_ACTION_TIMEOUT", "soon")
	t.Setenv("UIPROBE_WORKERS", "-4")
	t.Setenv("UIPROBE_ARTIFACTS", "sometimes")
	t.Setenv("UIPROBE_HEADLESS", "yep")

	cfg := LoadSuiteConfig(&EnvService{})

	assert.Equal(t, 10*time.Second, cfg.ActionTimeout)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers, "non-positive worker counts fall back to auto")
	assert.Equal(t, ArtifactsOnFailure, cfg.Artifacts, "unknown policy falls back")
	assert.True(t, cfg.Headless)
}

func TestEnvService_Accessors(t *testing.T) {
	t.Setenv("UIPROBE_TEST_STR", "value")
	t.Setenv("UIPROBE_TEST_INT", "42")
	t.Setenv("UIPROBE_TEST_BOOL", "true")
	t.Setenv("UIPROBE_TEST_DUR", "90s")

	svc := &EnvService{}
	assert.Equal(t, "value", svc.Get("UIPROBE_TEST_STR"))
	assert.Equal(t, "fallback", svc.GetWithDefault("UIPROBE_TEST_MISSING", "fallback"))
	assert.Equal(t, 42, svc.GetInt("UIPROBE_TEST_INT", 0))
	assert.True(t, svc.GetBool("UIPROBE_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, svc.GetDuration("UIPROBE_TEST_DUR", time.Second))
}
