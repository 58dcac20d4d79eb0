package config

import (
	"os"
	"strconv"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// MQConfig holds RabbitMQ settings.
type MQConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds Redis settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// AIConfig holds settings for the hosted LLM endpoint.
type AIConfig struct {
	Provider       string `yaml:"provider"` // gemini | openai
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	Endpoint       string `yaml:"endpoint"` // optional base URL override
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AssistantConfig holds settings for the chat assistant pipeline.
type AssistantConfig struct {
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// OverrideDBFromEnv applies DB_* environment variables on top of cfg.
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

// OverrideMQFromEnv applies MQ_URL on top of cfg.
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
}

// OverrideRedisFromEnv applies REDIS_* environment variables on top of cfg.
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

// OverrideJWTFromEnv applies JWT_SECRET on top of cfg.
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv applies SERVER_PORT on top of cfg.
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideAIFromEnv applies AI_* environment variables on top of cfg.
// The API key in particular should come from the environment, not YAML.
func OverrideAIFromEnv(cfg *AIConfig) {
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		cfg.Provider = provider
	}
	if model := os.Getenv("AI_MODEL"); model != "" {
		cfg.Model = model
	}
	if key := os.Getenv("AI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if endpoint := os.Getenv("AI_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if timeout := os.Getenv("AI_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			cfg.TimeoutSeconds = t
		}
	}
}
