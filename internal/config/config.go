package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

type Config struct {
	HTTPAddr  string
	// WSOrigins are extra Origin host patterns allowed on /api/ws. Same-host
	// origins are always allowed.
	WSOrigins []string

	LLMProvider    string
	LLMModel       string
	LLMTemperature float64
	LLMBaseURL     string
	LLMAPIKey      string

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) into the process environment without
// overriding variables that are already set, then builds the config.
func Load() Config {
	_ = godotenv.Load(".env")
	return FromEnv()
}

func FromEnv() Config {
	provider := strings.ToLower(getEnv("EXPERTS_LLM_PROVIDER", ProviderOpenAI))
	return Config{
		HTTPAddr:  getEnv("EXPERTS_HTTP_ADDR", ":8501"),
		WSOrigins: getList("EXPERTS_WS_ORIGINS"),

		LLMProvider:    provider,
		LLMModel:       getEnv("EXPERTS_LLM_MODEL", defaultModel(provider)),
		LLMTemperature: getFloat("EXPERTS_LLM_TEMPERATURE", 0.2),
		LLMBaseURL:     getEnv("EXPERTS_LLM_BASE_URL", ""),
		LLMAPIKey:      os.Getenv(CredentialEnv(provider)),

		LogLevel:  getEnv("EXPERTS_LOG_LEVEL", "info"),
		LogFormat: getEnv("EXPERTS_LOG_FORMAT", "json"),
	}
}

// CredentialEnv names the environment variable holding the API key for provider.
func CredentialEnv(provider string) string {
	if provider == ProviderGoogle {
		return "GOOGLE_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// MissingCredential reports whether the provider's API key is unset. A
// missing key is not fatal: requests fail downstream instead.
func (c Config) MissingCredential() bool {
	return strings.TrimSpace(c.LLMAPIKey) == ""
}

// CredentialWarning is the banner shown when the API key is absent.
func (c Config) CredentialWarning() string {
	if !c.MissingCredential() {
		return ""
	}
	return CredentialEnv(c.LLMProvider) + " is not set in the environment. Set it before submitting a question."
}

func defaultModel(provider string) string {
	if provider == ProviderGoogle {
		return "gemini-1.5-flash"
	}
	return "gpt-4o-mini"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
