package infra

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"parkfinder/pkg/utils"
)

// Config is read from the environment, optionally seeded from .env.local and .env.
type Config struct {
	Port string

	PostgresURL   string
	DBAutoMigrate bool

	NPSAPIKey    string
	NPSAPIURL    string
	NPSTimeout   time.Duration
	NPSRateLimit float64
	NPSRateBurst int

	Embedding utils.EmbeddingConfig

	SyncBatchSize int
	SyncPageSize  int

	SearchDefaultLimit int
	SearchMaxLimit     int

	LogLevel  string
	LogFormat string

	// PushgatewayURL is where one-shot commands push their metrics. Empty
	// disables pushing.
	PushgatewayURL string
}

var envFiles = []string{".env.local", ".env"}

// LoadConfig loads env files that exist (without overriding variables that
// are already set) and reads the configuration through viper.
func LoadConfig() (Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return configFrom(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("NPS_API_URL", "https://developer.nps.gov/api/v1")
	v.SetDefault("NPS_TIMEOUT", "15s")
	v.SetDefault("NPS_RATE_LIMIT", 10.0)
	v.SetDefault("NPS_RATE_BURST", 5)
	v.SetDefault("EMBEDDING_PROVIDER", "gemini")
	v.SetDefault("OPENAI_MODEL", "text-embedding-3-small")
	v.SetDefault("GEMINI_MODEL", "text-embedding-004")
	v.SetDefault("OLLAMA_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "nomic-embed-text")
	v.SetDefault("EMBEDDING_DIMENSIONS", utils.DefaultHashDimensions)
	v.SetDefault("SYNC_BATCH_SIZE", 5)
	v.SetDefault("SYNC_PAGE_SIZE", 50)
	v.SetDefault("SEARCH_DEFAULT_LIMIT", 5)
	v.SetDefault("SEARCH_MAX_LIMIT", 50)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func configFrom(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:               v.GetString("PORT"),
		PostgresURL:        v.GetString("POSTGRES_URL"),
		DBAutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),
		NPSAPIKey:          v.GetString("NPS_API_KEY"),
		NPSAPIURL:          v.GetString("NPS_API_URL"),
		NPSTimeout:         v.GetDuration("NPS_TIMEOUT"),
		NPSRateLimit:       v.GetFloat64("NPS_RATE_LIMIT"),
		NPSRateBurst:       v.GetInt("NPS_RATE_BURST"),
		SyncBatchSize:      v.GetInt("SYNC_BATCH_SIZE"),
		SyncPageSize:       v.GetInt("SYNC_PAGE_SIZE"),
		SearchDefaultLimit: v.GetInt("SEARCH_DEFAULT_LIMIT"),
		SearchMaxLimit:     v.GetInt("SEARCH_MAX_LIMIT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		PushgatewayURL:     v.GetString("PUSHGATEWAY_URL"),
	}
	if cfg.PostgresURL == "" {
		cfg.PostgresURL = v.GetString("POSTGRES_URL_NON_POOLING")
	}

	provider := strings.ToLower(v.GetString("EMBEDDING_PROVIDER"))
	cfg.Embedding = utils.EmbeddingConfig{
		Provider:   provider,
		Dimensions: v.GetInt("EMBEDDING_DIMENSIONS"),
	}
	switch provider {
	case "openai":
		cfg.Embedding.APIKey = v.GetString("OPENAI_API_KEY")
		cfg.Embedding.Model = v.GetString("OPENAI_MODEL")
	case "gemini":
		cfg.Embedding.APIKey = v.GetString("GEMINI_API_KEY")
		cfg.Embedding.Model = v.GetString("GEMINI_MODEL")
	case "ollama":
		cfg.Embedding.BaseURL = v.GetString("OLLAMA_URL")
		cfg.Embedding.Model = v.GetString("OLLAMA_MODEL")
	}

	if cfg.PostgresURL == "" {
		return cfg, fmt.Errorf("POSTGRES_URL is required")
	}
	if cfg.NPSAPIKey == "" {
		log.Warn().Msg("NPS_API_KEY is not set, NPS requests will be rejected upstream")
	}
	return cfg, nil
}
