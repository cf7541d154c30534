package config

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string
	LLM  LLMConfig
}

type LLMConfig struct {
	Provider string // "gemini" or "fake"
	Model    string
	APIKey   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port: *port,
		Env:  env,
		LLM:  loadLLMConfig(env),
	}, nil
}

func loadLLMConfig(env string) LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if provider == "" {
		provider = "gemini"
		// Local runs without a credential fall back to the offline client.
		if apiKey == "" && strings.EqualFold(env, "local") {
			provider = "fake"
		}
	}
	return LLMConfig{
		Provider: provider,
		Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "gemini-2.5-flash"),
		APIKey:   apiKey,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
