// Package config loads the translator configuration from defaults, an
// optional YAML file and TRANSLATOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TRANSLATOR"

// Backend kinds.
const (
	KindHTTP   = "http"
	KindLambda = "lambda"
	KindOpenAI = "openai"
)

// Config is the immutable configuration of one translator process.
// It is built once at startup and passed by value.
type Config struct {
	MaxChunkSize     int `mapstructure:"max_chunk_size"      validate:"gte=1"`
	MaxRetries       int `mapstructure:"max_retries"         validate:"gte=1"`
	RetryDelayMs     int `mapstructure:"retry_delay_ms"      validate:"gte=0"`
	ConcurrencyLimit int `mapstructure:"concurrency_limit"   validate:"gte=1"`
	LaunchStaggerMs  int `mapstructure:"launch_stagger_ms"   validate:"gte=0"`
	PerCallTimeoutMs int `mapstructure:"per_call_timeout_ms" validate:"gte=1"`
	MaxTextLength    int `mapstructure:"max_text_length"     validate:"gte=1"`

	Backend Backend `mapstructure:"backend"`
	Log     Log     `mapstructure:"log"`
	HTTP    HTTP    `mapstructure:"http"`
}

// Backend selects and configures the remote translation service.
type Backend struct {
	Kind              string `mapstructure:"kind"                validate:"oneof=http lambda openai"`
	URL               string `mapstructure:"url"                 validate:"required_if=Kind http"`
	LambdaFunction    string `mapstructure:"lambda_function"     validate:"required_if=Kind lambda"`
	OpenAIModel       string `mapstructure:"openai_model"`
	OpenAIAPIKey      string `mapstructure:"openai_api_key"      validate:"required_if=Kind openai"`
	OpenAIBaseURL     string `mapstructure:"openai_base_url"`
	BreakerFailures   int    `mapstructure:"breaker_failures"    validate:"gte=0"`
	BreakerCooldownMs int    `mapstructure:"breaker_cooldown_ms" validate:"gte=0"`
}

// Log configures the zerolog logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTP configures the HTTP server of `transmgr serve`.
type HTTP struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		MaxChunkSize:     300,
		MaxRetries:       5,
		RetryDelayMs:     1000,
		ConcurrencyLimit: 3,
		LaunchStaggerMs:  200,
		PerCallTimeoutMs: 30000,
		MaxTextLength:    50000,
		Backend: Backend{
			Kind:              KindHTTP,
			URL:               "http://localhost:8000/translate",
			BreakerCooldownMs: 30000,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTP{
			Addr: ":8080",
		},
	}
}

// RetryDelay is the linear backoff unit between attempts.
func (c Config) RetryDelay() time.Duration { return ms(c.RetryDelayMs) }

// LaunchStagger is the delay between successive segment launches.
func (c Config) LaunchStagger() time.Duration { return ms(c.LaunchStaggerMs) }

// PerCallTimeout is the hard limit on one backend call.
func (c Config) PerCallTimeout() time.Duration { return ms(c.PerCallTimeoutMs) }

// BreakerCooldown is how long an open breaker waits before probing again.
func (b Backend) BreakerCooldown() time.Duration { return ms(b.BreakerCooldownMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Validate checks the struct tags of c.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load registers defaults on v, binds TRANSLATOR_* environment variables,
// reads file (or an optional translator.yaml in the working directory when
// file is empty) and returns the validated configuration.
// Flags bound to v by the caller take precedence over all of these.
func Load(v *viper.Viper, file string) (Config, error) {
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("backend.openai_api_key", EnvPrefix+"_BACKEND_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("failed to bind env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("translator")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("max_chunk_size", d.MaxChunkSize)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("retry_delay_ms", d.RetryDelayMs)
	v.SetDefault("concurrency_limit", d.ConcurrencyLimit)
	v.SetDefault("launch_stagger_ms", d.LaunchStaggerMs)
	v.SetDefault("per_call_timeout_ms", d.PerCallTimeoutMs)
	v.SetDefault("max_text_length", d.MaxTextLength)

	v.SetDefault("backend.kind", d.Backend.Kind)
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.lambda_function", d.Backend.LambdaFunction)
	v.SetDefault("backend.openai_model", d.Backend.OpenAIModel)
	v.SetDefault("backend.openai_api_key", d.Backend.OpenAIAPIKey)
	v.SetDefault("backend.openai_base_url", d.Backend.OpenAIBaseURL)
	v.SetDefault("backend.breaker_failures", d.Backend.BreakerFailures)
	v.SetDefault("backend.breaker_cooldown_ms", d.Backend.BreakerCooldownMs)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("http.addr", d.HTTP.Addr)
}
