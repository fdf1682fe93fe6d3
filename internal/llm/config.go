package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of gateway call being performed.
type TaskType string

const (
	TaskChat   TaskType = "chat"
	TaskSearch TaskType = "search"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// SearchConfig configures the web-search-grounded backend.
type SearchConfig struct {
	Enabled bool
	APIKey  string
	Model   string
	BaseURL string // empty uses the provider default
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string // OpenAI-compatible base URL, e.g. https://api.mistral.ai/v1
	APIKey     string
	Model      string
	TimeoutMs  int
	MaxRetries int
	RatePerSec float64 // 0 disables rate limiting
	Search     SearchConfig
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "https://api.mistral.ai/v1",
		Model:      "mistral-small-latest",
		TimeoutMs:  30000,
		MaxRetries: 0,
		RatePerSec: 1,
		Search: SearchConfig{
			Enabled: false,
			Model:   "gemini-2.5-flash",
		},
		Tasks: map[TaskType]TaskConfig{
			TaskChat:   {Temperature: 0.1, MaxTokens: 2048, TimeoutMs: 30000},
			TaskSearch: {Temperature: 0.2, MaxTokens: 4096, TimeoutMs: 60000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("CIRCUSAGENT_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if v := os.Getenv("MISTRAL_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_RATE_PER_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.RatePerSec = f
		}
	}

	if v := os.Getenv("CIRCUSAGENT_LLM_SEARCH_ENABLED"); v != "" {
		cfg.Search.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_GEMINI_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("CIRCUSAGENT_LLM_SEARCH_MODEL"); v != "" {
		cfg.Search.Model = v
	}

	applyTaskTimeoutEnv(&cfg, TaskChat, "CIRCUSAGENT_LLM_CHAT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSearch, "CIRCUSAGENT_LLM_SEARCH_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
