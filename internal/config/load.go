package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const EnvPrefix = "SCRY"

// Load configuration from environment variables and optionally a config
// file named config.yaml in the working directory. Environment variables
// take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path
// searches for config.yaml in the working directory.
func LoadFile(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadLLM reads the same sources as Load but validates only the LLM and
// telemetry settings, for command line tools that run without the HTTP
// server or auth.
func LoadLLM(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	v := validator.New()
	if err := v.Struct(cfg.LLM); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if strings.TrimSpace(cfg.LLM.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("config validation failed: %s_LLM_GEMINI_API_KEY is required", EnvPrefix)
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can find it during
// Unmarshal, including keys whose default is empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 15)
	v.SetDefault("server.request_timeout_seconds", 600)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-1.5-flash")
	v.SetDefault("llm.prompt_template_dir", "")
	v.SetDefault("llm.study_max_retries", 3)
	v.SetDefault("llm.paper_max_retries", 5)
	v.SetDefault("llm.retry_delay_seconds", 1)
	v.SetDefault("llm.delay_first_attempt", true)
	v.SetDefault("llm.plan_batch_size", 30)
	v.SetDefault("llm.max_plan_days", 365)
	v.SetDefault("llm.max_podcast_rounds", 5)
	v.SetDefault("llm.questions_per_test", 5)
	v.SetDefault("llm.flashcards_per_day", 10)

	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.max_upload_bytes", 20<<20)

	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.credentials_file", "")
	v.SetDefault("speech.language_code", "en-US")
	v.SetDefault("speech.voice_name", "")

	v.SetDefault("session.max_sessions", 1000)
	v.SetDefault("session.ttl_minutes", 120)
	v.SetDefault("session.requests_per_minute", 30)

	v.SetDefault("telemetry.service_name", "scry-study")
	v.SetDefault("telemetry.exporter", "none")
	v.SetDefault("telemetry.otlp_endpoint", "")
}
