package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norangai/Minimal-Pair-Test/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:           ":8080",
		CatalogPath:    "pairs.csv",
		AudioDir:       "audio",
		ProgressPath:   "progress.json",
		FeedbackPath:   "audio_feedback.json",
		TTSBaseURL:     "http://localhost:50021",
		TTSVoices:      []int{13},
		TTSTimeoutSecs: 10,
		SynthWorkers:   8,
		DailyTarget:    20,
		LogLevel:       "INFO",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyPaths(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{"catalog", func(c *config.Config) { c.CatalogPath = "" }, "CATALOG_PATH"},
		{"audio dir", func(c *config.Config) { c.AudioDir = "" }, "AUDIO_DIR"},
		{"progress", func(c *config.Config) { c.ProgressPath = "" }, "PROGRESS_PATH"},
		{"feedback", func(c *config.Config) { c.FeedbackPath = "" }, "FEEDBACK_PATH"},
		{"tts base url", func(c *config.Config) { c.TTSBaseURL = "" }, "TTS_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{"no voices", func(c *config.Config) { c.TTSVoices = nil }, "TTS_VOICES"},
		{"zero timeout", func(c *config.Config) { c.TTSTimeoutSecs = 0 }, "TTS_TIMEOUT_SECONDS"},
		{"negative timeout", func(c *config.Config) { c.TTSTimeoutSecs = -1 }, "TTS_TIMEOUT_SECONDS"},
		{"zero workers", func(c *config.Config) { c.SynthWorkers = 0 }, "SYNTH_WORKER_COUNT"},
		{"zero target", func(c *config.Config) { c.DailyTarget = 0 }, "DAILY_TARGET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR", "warn"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	cfg.LogLevel = "LOUD"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "CATALOG_PATH")
	assert.Contains(t, errStr, "TTS_VOICES")
	assert.Contains(t, errStr, "DAILY_TARGET")
	assert.Contains(t, errStr, "LOG_LEVEL")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "TTS_VOICES", "SYNTH_WORKER_COUNT", "DAILY_TARGET"} {
		os.Unsetenv(key)
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []int{13}, cfg.TTSVoices)
	assert.Equal(t, 8, cfg.SynthWorkers)
	assert.Equal(t, 20, cfg.DailyTarget)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("TTS_VOICES", "1, 3,8")
	t.Setenv("DAILY_TARGET", "35")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []int{1, 3, 8}, cfg.TTSVoices)
	assert.Equal(t, 35, cfg.DailyTarget)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DAILY_TARGET", "plenty")
	t.Setenv("TTS_VOICES", "a,b")

	cfg := config.Load()

	assert.Equal(t, 20, cfg.DailyTarget)
	assert.Equal(t, []int{13}, cfg.TTSVoices)
}
