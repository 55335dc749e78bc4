// Package config loads the process configuration once at startup.
//
// Values are read by viper from the environment, an optional dotenv file and
// command line flags. Flags win over the environment, and the environment wins
// over the dotenv file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EndpointURL is the chat completion endpoint every request is sent to.
	EndpointURL = "https://openrouter.ai/api/v1/chat/completions"

	// DefaultModel is used when OPENROUTER_MODEL is unset.
	DefaultModel = "google/gemini-2.0-flash-thinking-exp:free"

	// Temperature is the fixed sampling temperature of every request.
	Temperature = 0.7

	DefaultListenAddr = ":8501"
	DefaultSessionTTL = 24 * time.Hour
	DefaultEnvFile    = ".env"
)

const (
	envKeyAPIKey     = "OPENROUTER_API_KEY"
	envKeyModel      = "OPENROUTER_MODEL"
	envKeyListenAddr = "TALKTODO_LISTEN"
	envKeyDebug      = "TALKTODO_DEBUG"
	envKeySessionTTL = "TALKTODO_SESSION_TTL"
)

// ErrConfigMissing is returned when the API credential is not configured.
// It is fatal: nothing may be served without it.
var ErrConfigMissing = errors.New("please set your OpenRouter API key (" + envKeyAPIKey + ") in the environment or the .env file")

// Config is immutable after Load returns.
type Config struct {
	// APIKey is the OpenRouter bearer credential. Never log it.
	APIKey string

	// Model is the model identifier sent with every request.
	Model string

	// EndpointURL is where completion requests are POSTed.
	EndpointURL string

	// ListenAddr is the address the web server listens on (e.g., ":8501").
	ListenAddr string

	// Debug enables debug logging.
	Debug bool

	// SessionTTL is how long an idle browser session keeps its conversation.
	SessionTTL time.Duration
}

// LoadOptions tells Load where to look besides the environment.
type LoadOptions struct {
	// EnvFile is a dotenv file to read. Empty means DefaultEnvFile.
	// A missing file is not an error.
	EnvFile string

	// Flags, when set, are bound over the environment. Recognized flag names
	// are "listen" and "debug".
	Flags *pflag.FlagSet
}

// Load reads the configuration. It returns ErrConfigMissing when no API key
// is configured.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	v.SetDefault(envKeyModel, DefaultModel)
	v.SetDefault(envKeyListenAddr, DefaultListenAddr)
	v.SetDefault(envKeyDebug, false)
	v.SetDefault(envKeySessionTTL, DefaultSessionTTL)

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to stat env file %s: %w", envFile, err)
	}

	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range map[string]string{
			envKeyListenAddr: "listen",
			envKeyDebug:      "debug",
		} {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		APIKey:      strings.TrimSpace(v.GetString(envKeyAPIKey)),
		Model:       strings.TrimSpace(v.GetString(envKeyModel)),
		EndpointURL: EndpointURL,
		ListenAddr:  v.GetString(envKeyListenAddr),
		Debug:       v.GetBool(envKeyDebug),
		SessionTTL:  v.GetDuration(envKeySessionTTL),
	}

	if cfg.APIKey == "" {
		return Config{}, ErrConfigMissing
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return cfg, nil
}
