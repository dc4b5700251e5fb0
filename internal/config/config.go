// README: Config loader with env defaults for HTTP, Weaviate, Redis, and AI settings.
package config

import (
	"os"
	"strconv"
	"strings"
)

type PipelineConfig struct {
	CandidateLimit     int
	AmbiguousThreshold int
	// DailyTurnLimit caps /search turns per client per day; 0 disables.
	DailyTurnLimit int
}

type Config struct {
	HTTP struct {
		Addr string
		// CORSOrigins is a comma-separated allowlist; empty keeps the
		// local-dev defaults.
		CORSOrigins []string
	}
	Weaviate struct {
		Host   string
		Scheme string
	}
	Redis struct {
		Addr string
		// Enabled toggles the embedding cache; the pipeline runs without it.
		Enabled bool
	}
	Pipeline PipelineConfig
	AI       struct {
		// Provider selects the chat backend: "openai" or "gemini".
		// Embeddings always come from OpenAI.
		Provider   string
		OpenAIKey  string
		GeminiKey  string
		ChatModel  string
		EmbedModel string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("PLANPICK_HTTP_ADDR", ":8000")
	cfg.HTTP.CORSOrigins = envList("PLANPICK_CORS_ORIGINS")
	cfg.Weaviate.Host = envOrDefault("PLANPICK_WEAVIATE_HOST", "localhost:8080")
	cfg.Weaviate.Scheme = envOrDefault("PLANPICK_WEAVIATE_SCHEME", "http")
	cfg.Redis.Addr = envOrDefault("PLANPICK_REDIS_ADDR", "localhost:6379")
	cfg.Redis.Enabled = envOrDefault("PLANPICK_REDIS_ENABLED", "true") == "true"
	cfg.Pipeline.CandidateLimit = envOrDefaultInt("PLANPICK_CANDIDATE_LIMIT", 10)
	cfg.Pipeline.AmbiguousThreshold = envOrDefaultInt("PLANPICK_AMBIGUOUS_THRESHOLD", 3)
	cfg.Pipeline.DailyTurnLimit = envOrDefaultInt("PLANPICK_DAILY_TURN_LIMIT", 0)
	cfg.AI.Provider = envOrDefault("PLANPICK_AI_PROVIDER", "openai")
	cfg.AI.ChatModel = envOrDefault("PLANPICK_CHAT_MODEL", "")
	cfg.AI.EmbedModel = envOrDefault("PLANPICK_EMBED_MODEL", "")
	cfg.AI.OpenAIKey = envOrError("OPENAI_API_KEY")
	if cfg.AI.Provider == "gemini" {
		cfg.AI.GeminiKey = envOrError("GEMINI_API_KEY")
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrError(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	panic("environment variable " + key + " is required")
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
