package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for AskPaper
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Log        LogConfig        `mapstructure:"log"`
	Cache      CacheConfig      `mapstructure:"cache"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Chat       ChatConfig       `mapstructure:"chat"`
	Extract    ExtractConfig    `mapstructure:"extract"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json, console
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Cache backends
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
	CacheGCS    = "gcs"
)

// CacheConfig selects and configures the document / history store
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
	Redis   RedisConfig   `mapstructure:"redis"`
	GCS     GCSConfig     `mapstructure:"gcs"`
}

// SQLiteConfig holds the sqlite cache file location
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig holds redis connection details
type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

// GCSConfig holds object storage details
type GCSConfig struct {
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"` // emulator only
}

// LLM providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	Provider   string        `mapstructure:"provider"`
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	APIKeyFile string        `mapstructure:"api_key_file"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SummarizerConfig holds map-reduce settings
type SummarizerConfig struct {
	ChunkSize      int `mapstructure:"chunk_size"`
	ChunkOverlap   int `mapstructure:"chunk_overlap"`
	MapConcurrency int `mapstructure:"map_concurrency"`
	MinTextChars   int `mapstructure:"min_text_chars"`
}

// ChatConfig holds chat settings
type ChatConfig struct {
	MaxContextChars int `mapstructure:"max_context_chars"`
}

// ExtractConfig holds paper download settings
type ExtractConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ASKPAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", "ASKPAPER_LLM_API_KEY", "GEMINI_API_KEY")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" && cfg.LLM.APIKeyFile != "" {
		key, err := readAPIKeyFile(cfg.LLM.APIKeyFile)
		if err != nil {
			return nil, err
		}
		cfg.LLM.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 30*time.Second)
	// summarizing a long paper takes several sequential LLM calls
	v.SetDefault("server.write_timeout", 10*time.Minute)

	v.SetDefault("admin.api_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.sqlite.path", "./data/askpaper.db")
	v.SetDefault("cache.redis.url", "redis://localhost:6379/0")
	v.SetDefault("cache.redis.prefix", "askpaper:")
	v.SetDefault("cache.gcs.bucket", "")
	v.SetDefault("cache.gcs.endpoint", "")

	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.api_key_file", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.timeout", 120*time.Second)

	v.SetDefault("summarizer.chunk_size", 20000)
	v.SetDefault("summarizer.chunk_overlap", 800)
	v.SetDefault("summarizer.map_concurrency", 1)
	v.SetDefault("summarizer.min_text_chars", 200)

	v.SetDefault("chat.max_context_chars", 60000)

	v.SetDefault("extract.timeout", 45*time.Second)
	v.SetDefault("extract.user_agent", "Mozilla/5.0 (PaperSummarizerBot)")
	v.SetDefault("extract.max_bytes", 50<<20)
}

// Validate checks settings that would otherwise fail at request time
func (c *Config) Validate() error {
	s := c.Summarizer
	if s.ChunkSize <= 0 {
		return fmt.Errorf("summarizer.chunk_size must be positive, got %d", s.ChunkSize)
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("summarizer.chunk_overlap must be in [0, chunk_size), got %d with chunk_size %d",
			s.ChunkOverlap, s.ChunkSize)
	}
	if s.MapConcurrency < 1 {
		return fmt.Errorf("summarizer.map_concurrency must be at least 1, got %d", s.MapConcurrency)
	}
	if c.Chat.MaxContextChars <= 0 {
		return fmt.Errorf("chat.max_context_chars must be positive, got %d", c.Chat.MaxContextChars)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheSQLite, CacheRedis:
	case CacheGCS:
		if c.Cache.GCS.Bucket == "" {
			return fmt.Errorf("cache.gcs.bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}

	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	return nil
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// readAPIKeyFile accepts a bare key or a JSON object, preferring its GEMINI_API_KEY entry
func readAPIKeyFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read api key file: %w", err)
	}
	s := strings.TrimSpace(string(raw))

	var obj map[string]string
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		if key := obj["GEMINI_API_KEY"]; key != "" {
			return strings.TrimSpace(key), nil
		}
		for _, name := range slices.Sorted(maps.Keys(obj)) {
			if key := obj[name]; key != "" {
				return strings.TrimSpace(key), nil
			}
		}
		return "", fmt.Errorf("api key file %s has no usable value", path)
	}

	if s == "" {
		return "", fmt.Errorf("api key file %s is empty", path)
	}
	return s, nil
}
