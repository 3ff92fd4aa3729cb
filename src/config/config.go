// Package config resolves hey's settings once at startup.
//
// Values come from the process environment, an optional .env file in the
// working directory and an optional YAML file (~/.config/hey/config.yml),
// in that order of precedence. The result is an immutable Config that is
// passed explicitly to the search and chat clients.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/apimgr/hey/src/model"
	"github.com/apimgr/hey/src/paths"
)

// Defaults for optional settings
const (
	DefaultModel     = "gpt-3.5-turbo"
	DefaultUserName  = "User"
	DefaultTone      = "friendly"
	DefaultSearchURL = "https://www.googleapis.com/customsearch/v1"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "warn"
	defaultBotName   = "Hey"
)

const (
	keySearchEngineID = "search.engine_id"
	keySearchAPIKey   = "search.api_key"
	keySearchURL      = "search.url"
	keyOpenAIKey      = "openai.api_key"
	keyOpenAIModel    = "openai.model"
	keyOpenAIBaseURL  = "openai.base_url"
	keyBotName        = "bot.name"
	keyUserName       = "bot.user"
	keyTone           = "bot.tone"
	keyTimeout        = "http.timeout"
	keyLogLevel       = "log.level"
	keyLogFile        = "log.file"
)

// Config is the resolved configuration for one invocation. It is never
// mutated after Load returns.
type Config struct {
	SearchEngineID string        `yaml:"search_engine_id"`
	SearchAPIKey   string        `yaml:"search_api_key"`
	SearchURL      string        `yaml:"search_url"`
	OpenAIKey      string        `yaml:"openai_api_key"`
	OpenAIModel    string        `yaml:"openai_model"`
	OpenAIBaseURL  string        `yaml:"openai_base_url,omitempty"`
	BotName        string        `yaml:"bot_name"`
	UserName       string        `yaml:"user_name"`
	Tone           string        `yaml:"tone"`
	Timeout        time.Duration `yaml:"timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFile        string        `yaml:"log_file"`
}

// LoadOptions controls where Load looks and what it insists on.
type LoadOptions struct {
	// RequireChat makes OPENAI_API_KEY mandatory. The CLI clears it for
	// --no-openai, where no chat request can happen.
	RequireChat bool

	// EnvFile is the dotenv file to load; empty means ".env". A missing
	// file is not an error.
	EnvFile string

	// ConfigFile is the YAML config file; empty means $HEY_CONFIG or
	// paths.ConfigFile(). A missing file is not an error.
	ConfigFile string

	// Hostname overrides os.Hostname for the default bot name.
	Hostname func() (string, error)
}

// Load resolves the configuration. A missing required credential yields a
// *model.ConfigurationError before any network activity can happen.
func Load(opts LoadOptions) (*Config, error) {
	v, err := newViper(opts)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SearchEngineID: v.GetString(keySearchEngineID),
		SearchAPIKey:   v.GetString(keySearchAPIKey),
		SearchURL:      v.GetString(keySearchURL),
		OpenAIKey:      v.GetString(keyOpenAIKey),
		OpenAIModel:    v.GetString(keyOpenAIModel),
		OpenAIBaseURL:  v.GetString(keyOpenAIBaseURL),
		BotName:        v.GetString(keyBotName),
		UserName:       v.GetString(keyUserName),
		Tone:           v.GetString(keyTone),
		LogLevel:       v.GetString(keyLogLevel),
		LogFile:        v.GetString(keyLogFile),
	}

	required := []struct {
		env   string
		value string
	}{
		{EnvSearchEngineID, cfg.SearchEngineID},
		{EnvSearchAPIKey, cfg.SearchAPIKey},
	}
	if opts.RequireChat {
		required = append(required, struct {
			env   string
			value string
		}{EnvOpenAIKey, cfg.OpenAIKey})
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &model.ConfigurationError{Key: r.env}
		}
	}

	timeout, err := parseTimeout(v.GetString(keyTimeout))
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout

	if cfg.BotName == "" {
		hostname := opts.Hostname
		if hostname == nil {
			hostname = os.Hostname
		}
		host, _ := hostname()
		cfg.BotName = DefaultBotName(host)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = paths.LogFile()
	}
	cfg.LogFile = paths.ExpandHome(cfg.LogFile)

	return cfg, nil
}

// LogSettings holds only the logging settings. It is resolved before the
// full Config so that configuration errors can themselves be logged.
type LogSettings struct {
	Level string
	File  string
}

// LoadLogSettings resolves the log level and log file without validating
// any credentials.
func LoadLogSettings(opts LoadOptions) LogSettings {
	v, err := newViper(opts)
	if err != nil {
		return LogSettings{Level: DefaultLogLevel, File: paths.LogFile()}
	}
	file := v.GetString(keyLogFile)
	if file == "" {
		file = paths.LogFile()
	}
	return LogSettings{
		Level: v.GetString(keyLogLevel),
		File:  paths.ExpandHome(file),
	}
}

// DefaultBotName returns the capitalized first label of hostname,
// e.g. "worker1.example.com" becomes "Worker1".
func DefaultBotName(hostname string) string {
	label, _, _ := strings.Cut(strings.TrimSpace(hostname), ".")
	if label == "" {
		return defaultBotName
	}
	label = cases.Lower(language.Und).String(label)
	first, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(first)) + label[size:]
}

// Redacted returns a copy of c with credentials masked, safe to print.
func (c *Config) Redacted() Config {
	out := *c
	out.SearchAPIKey = mask(c.SearchAPIKey)
	out.OpenAIKey = mask(c.OpenAIKey)
	return out
}

func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func newViper(opts LoadOptions) (*viper.Viper, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv.Load never overrides variables already in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &model.ConfigurationError{Key: envFile, Reason: err.Error()}
	}

	v := viper.New()
	v.SetDefault(keySearchURL, DefaultSearchURL)
	v.SetDefault(keyOpenAIModel, DefaultModel)
	v.SetDefault(keyUserName, DefaultUserName)
	v.SetDefault(keyTone, DefaultTone)
	v.SetDefault(keyTimeout, strconv.Itoa(int(DefaultTimeout/time.Second)))
	v.SetDefault(keyLogLevel, DefaultLogLevel)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = getEnv(EnvConfigFile)
	}
	if configFile == "" {
		configFile = paths.ConfigFile()
	}
	configFile = paths.ExpandHome(configFile)
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &model.ConfigurationError{Key: configFile, Reason: err.Error()}
		}
	}

	return v, nil
}

func parseTimeout(val string) (time.Duration, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return DefaultTimeout, nil
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0, &model.ConfigurationError{Key: EnvTimeout, Reason: "must not be negative"}
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return 0, &model.ConfigurationError{Key: EnvTimeout, Reason: fmt.Sprintf("invalid duration %q", val)}
	}
	return d, nil
}
