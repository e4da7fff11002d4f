package config

// Config holds all application configuration, assembled by Load.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Worker     WorkerConfig     `mapstructure:"worker"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"           validate:"required,min=32"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"gt=0"`
}

// LLMConfig contains all generation backend settings.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"       validate:"required"`
	ModelName          string `mapstructure:"model_name"           validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries"          validate:"gte=0"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds"  validate:"gte=0"`
}

// GenerationConfig tunes the segmentation and request limits of the
// card generation pipeline.
type GenerationConfig struct {
	// MaxSegmentChars bounds the size of each text segment sent to the
	// generation backend.
	MaxSegmentChars int `mapstructure:"max_segment_chars" validate:"gt=0"`

	// MaxSourceChars bounds the total size of submitted source text.
	MaxSourceChars int `mapstructure:"max_source_chars" validate:"gt=0"`

	// MaxUploadBytes bounds the size of uploaded files.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`

	// DefaultCardCount is used when a request omits the card count.
	DefaultCardCount int `mapstructure:"default_card_count" validate:"gt=0"`

	// MaxCardCount bounds how many cards a single request may ask for.
	MaxCardCount int `mapstructure:"max_card_count" validate:"gt=0"`
}

// WorkerConfig tunes the background task runner.
type WorkerConfig struct {
	Count                   int `mapstructure:"count"                      validate:"gt=0"`
	QueueSize               int `mapstructure:"queue_size"                 validate:"gt=0"`
	ExecutionTimeoutMinutes int `mapstructure:"execution_timeout_minutes"  validate:"gt=0"`
	StuckTaskAgeMinutes     int `mapstructure:"stuck_task_age_minutes"     validate:"gt=0"`
	StuckTaskCheckMinutes   int `mapstructure:"stuck_task_check_minutes"   validate:"gt=0"`
}
