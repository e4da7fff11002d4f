package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// CARDIFY_ prefix with underscores separating nested keys, for example
// CARDIFY_DATABASE_URL or CARDIFY_LLM_GEMINI_API_KEY, and take
// precedence over file values. The result is validated before being
// returned.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults cover everything.
	}

	v.SetEnvPrefix("CARDIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through
	// Unmarshal, so bind every known key explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("config validation failed: %w", validationErrors)
		}
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for everything that has a
// sensible one. Secrets and connection strings have no defaults and
// must be provided.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_hours", 24)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("generation.max_segment_chars", 6000)
	v.SetDefault("generation.max_source_chars", 500000)
	v.SetDefault("generation.max_upload_bytes", 10*1024*1024)
	v.SetDefault("generation.default_card_count", 10)
	v.SetDefault("generation.max_card_count", 100)

	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.queue_size", 100)
	v.SetDefault("worker.execution_timeout_minutes", 5)
	v.SetDefault("worker.stuck_task_age_minutes", 30)
	v.SetDefault("worker.stuck_task_check_minutes", 5)
}

// configKeys lists every configuration key for explicit env binding.
func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_hours",
		"llm.gemini_api_key",
		"llm.model_name",
		"llm.prompt_template_path",
		"llm.max_retries",
		"llm.retry_delay_seconds",
		"generation.max_segment_chars",
		"generation.max_source_chars",
		"generation.max_upload_bytes",
		"generation.default_card_count",
		"generation.max_card_count",
		"worker.count",
		"worker.queue_size",
		"worker.execution_timeout_minutes",
		"worker.stuck_task_age_minutes",
		"worker.stuck_task_check_minutes",
	}
}
