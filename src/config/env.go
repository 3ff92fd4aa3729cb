package config

import (
	"os"
	"strings"
)

// Environment variables read by hey
const (
	EnvSearchEngineID = "GCSE_ID"
	EnvSearchAPIKey   = "GCSE_API_KEY"
	EnvSearchURL      = "HEY_SEARCH_URL"
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvOpenAIModel    = "OPENAI_MODEL"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvBotName        = "HEY_NAME"
	EnvUserName       = "HEY_USER"
	EnvTone           = "HEY_TONE"
	EnvTimeout        = "HEY_TIMEOUT"
	EnvLogLevel       = "HEY_LOG_LEVEL"
	EnvLogFile        = "HEY_LOG_FILE"
	EnvConfigFile     = "HEY_CONFIG"
)

// envBindings maps config keys to the environment variables that set them.
// A key may be set by more than one variable; the first non-empty wins.
var envBindings = map[string][]string{
	keySearchEngineID: {EnvSearchEngineID},
	keySearchAPIKey:   {EnvSearchAPIKey},
	keySearchURL:      {EnvSearchURL},
	keyOpenAIKey:      {EnvOpenAIKey},
	keyOpenAIModel:    {EnvOpenAIModel},
	keyOpenAIBaseURL:  {EnvOpenAIBaseURL},
	keyBotName:        {EnvBotName},
	keyUserName:       {EnvUserName},
	keyTone:           {EnvTone},
	keyTimeout:        {EnvTimeout},
	keyLogLevel:       {EnvLogLevel},
	keyLogFile:        {EnvLogFile},
}

// getEnv gets environment variable with multiple fallback keys
func getEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}
