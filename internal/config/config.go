package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"       validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage"   validate:"required"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Session   SessionConfig   `mapstructure:"session"   validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=300"`
	// RequestTimeoutSeconds bounds a single request; plan generation with
	// backoff can take minutes.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=1,lte=3600"`
}

// AuthConfig contains the login stub and token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	Username             string `mapstructure:"username"               validate:"required"`
	PasswordHash         string `mapstructure:"password_hash"          validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0,lte=1440"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey is the server-side fallback key. Users normally supply
	// their own key at login.
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	PromptTemplateDir string `mapstructure:"prompt_template_dir"`
	StudyMaxRetries   int    `mapstructure:"study_max_retries"   validate:"gte=1,lte=10"`
	PaperMaxRetries   int    `mapstructure:"paper_max_retries"   validate:"gte=1,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	// DelayFirstAttempt pays the backoff delay before the first attempt too.
	DelayFirstAttempt bool `mapstructure:"delay_first_attempt"`
	PlanBatchSize     int  `mapstructure:"plan_batch_size"     validate:"gte=1,lte=100"`
	MaxPlanDays       int  `mapstructure:"max_plan_days"       validate:"gte=1,lte=3650"`
	MaxPodcastRounds  int  `mapstructure:"max_podcast_rounds"  validate:"gte=1,lte=20"`
	QuestionsPerTest  int  `mapstructure:"questions_per_test"  validate:"gte=1,lte=50"`
	FlashcardsPerDay  int  `mapstructure:"flashcards_per_day"  validate:"gte=1,lte=50"`
}

// StorageConfig contains settings for the JSON course files.
type StorageConfig struct {
	DataDir        string `mapstructure:"data_dir"         validate:"required"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"gte=1024"`
}

// SpeechConfig contains Text-to-Speech settings.
type SpeechConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	APIKey          string `mapstructure:"api_key"`
	CredentialsFile string `mapstructure:"credentials_file"`
	LanguageCode    string `mapstructure:"language_code"`
	VoiceName       string `mapstructure:"voice_name"`
}

// SessionConfig bounds the in-memory user sessions.
type SessionConfig struct {
	MaxSessions       int `mapstructure:"max_sessions"        validate:"gte=1"`
	TTLMinutes        int `mapstructure:"ttl_minutes"         validate:"gte=1"`
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=1"`
}

// TelemetryConfig selects the trace exporter.
type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"  validate:"required"`
	Exporter     string `mapstructure:"exporter"      validate:"oneof=none stdout otlp"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"required_if=Exporter otlp"`
}
