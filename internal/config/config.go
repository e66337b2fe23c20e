package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	CatalogPath     string
	AudioDir        string
	ProgressPath    string
	FeedbackPath    string
	TTSBaseURL      string
	TTSVoices       []int
	TTSTimeoutSecs  int
	SynthWorkers    int
	DailyTarget     int
	LogLevel        string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:           envOr("ADDR", ":8080"),
		CatalogPath:    envOr("CATALOG_PATH", "Minimal Pairs.csv"),
		AudioDir:       envOr("AUDIO_DIR", "audio"),
		ProgressPath:   envOr("PROGRESS_PATH", "progress.json"),
		FeedbackPath:   envOr("FEEDBACK_PATH", "audio_feedback.json"),
		TTSBaseURL:     envOr("TTS_BASE_URL", "http://localhost:50021"),
		TTSVoices:      envIntListOr("TTS_VOICES", []int{13}),
		TTSTimeoutSecs: envIntOr("TTS_TIMEOUT_SECONDS", 10),
		SynthWorkers:   envIntOr("SYNTH_WORKER_COUNT", 8),
		DailyTarget:    envIntOr("DAILY_TARGET", 20),
		LogLevel:       envOr("LOG_LEVEL", "INFO"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.CatalogPath == "" {
		problems = append(problems, "CATALOG_PATH cannot be empty")
	}
	if c.AudioDir == "" {
		problems = append(problems, "AUDIO_DIR cannot be empty")
	}
	if c.ProgressPath == "" {
		problems = append(problems, "PROGRESS_PATH cannot be empty")
	}
	if c.FeedbackPath == "" {
		problems = append(problems, "FEEDBACK_PATH cannot be empty")
	}
	if c.TTSBaseURL == "" {
		problems = append(problems, "TTS_BASE_URL cannot be empty")
	}
	if len(c.TTSVoices) == 0 {
		problems = append(problems, "TTS_VOICES must list at least one speaker id")
	}
	if c.TTSTimeoutSecs <= 0 {
		problems = append(problems, "TTS_TIMEOUT_SECONDS must be positive")
	}
	if c.SynthWorkers <= 0 {
		problems = append(problems, "SYNTH_WORKER_COUNT must be positive")
	}
	if c.DailyTarget <= 0 {
		problems = append(problems, "DAILY_TARGET must be positive")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envIntListOr(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			log.Printf("invalid value for %s=%q, using default %v", key, v, def)
			return def
		}
		out = append(out, i)
	}
	if len(out) == 0 {
		return def
	}
	return out
}
