package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/job-tracker/internal/core"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. An empty path searches the default locations.
func New(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/job-tracker/")
		v.AddConfigPath("$HOME/.job-tracker")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("JOB_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Tracker defaults
	v.SetDefault("tracker.input", "output.json")
	v.SetDefault("tracker.merge_policy", "severity")
	v.SetDefault("tracker.relevance_filter", false)
	v.SetDefault("tracker.relevance_keywords", core.DefaultRelevanceKeywords)

	// Extractor defaults
	v.SetDefault("extractor.titles", core.DefaultJobTitles)
	v.SetDefault("extractor.body_scan_chars", 500)
	v.SetDefault("extractor.subdomain_prefixes", core.DefaultSubdomainPrefixes)
	v.SetDefault("extractor.personal_domains", core.DefaultPersonalDomains)

	// Keyword defaults
	v.SetDefault("keywords.file", "")
	v.SetDefault("keywords.interview", core.DefaultInterviewPhrases)
	v.SetDefault("keywords.rejected", core.DefaultRejectedPhrases)
	v.SetDefault("keywords.pending", core.DefaultPendingPhrases)

	// Exclusion defaults
	v.SetDefault("exclusion.rules_file", "")
	v.SetDefault("exclusion.patterns", []string{})

	// Mailbox defaults
	v.SetDefault("mail.provider", "gmail")
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.imap_host", "")
	v.SetDefault("mail.imap_port", 993)
	v.SetDefault("mail.mailbox", "INBOX")
	v.SetDefault("mail.limit", 0)
	v.SetDefault("mail.since_days", 0)
	v.SetDefault("mail.use_keyring", true)
	v.SetDefault("mail.timeout", "2m")

	// Inbox daemon defaults
	v.SetDefault("inbox.listen_address", "127.0.0.1:2525")
	v.SetDefault("inbox.domain", "localhost")
	v.SetDefault("inbox.store_path", "output.json")
	v.SetDefault("inbox.max_message_bytes", 10*1024*1024)

	// Advisor defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("advisor.concurrency", 2)
	v.SetDefault("advisor.requests_per_second", 1.0)
	v.SetDefault("advisor.burst", 1)
	v.SetDefault("advisor.timeout", "5m")

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 500)
	v.SetDefault("bedrock.temperature", 0.0)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 500)
	v.SetDefault("gemini.temperature", 0.0)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "168h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "$HOME/.job-tracker/suggestions.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/job_tracker")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
