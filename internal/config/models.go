package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikey/job-tracker/internal/core"
	"gopkg.in/yaml.v3"
)

// TrackerConfig represents the pipeline configuration
type TrackerConfig struct {
	Input             string
	MergePolicy       string
	RelevanceFilter   bool
	RelevanceKeywords []string
}

// MailConfig represents the IMAP mailbox configuration
type MailConfig struct {
	Provider   string
	Username   string
	Password   string
	IMAPHost   string
	IMAPPort   int
	Mailbox    string
	Limit      int
	SinceDays  int
	UseKeyring bool
	Timeout    time.Duration
}

// InboxConfig represents the SMTP intake configuration
type InboxConfig struct {
	ListenAddress   string
	Domain          string
	StorePath       string
	MaxMessageBytes int64
}

// AdvisorConfig represents the LLM advisor configuration
type AdvisorConfig struct {
	Provider          string
	Concurrency       int
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// CacheConfig represents the suggestion cache configuration
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// keywordFile is the YAML layout of keywords.file
type keywordFile struct {
	Interview []string `yaml:"interview"`
	Rejected  []string `yaml:"rejected"`
	Pending   []string `yaml:"pending"`
}

// GetTracker returns the tracker configuration
func (c *Config) GetTracker() TrackerConfig {
	return TrackerConfig{
		Input:             c.GetString("tracker.input"),
		MergePolicy:       c.GetString("tracker.merge_policy"),
		RelevanceFilter:   c.GetBool("tracker.relevance_filter"),
		RelevanceKeywords: c.GetStringSlice("tracker.relevance_keywords"),
	}
}

// GetExtractor returns the field extractor options
func (c *Config) GetExtractor() core.ExtractorOptions {
	return core.ExtractorOptions{
		Titles:            c.GetStringSlice("extractor.titles"),
		BodyScanChars:     c.GetInt("extractor.body_scan_chars"),
		SubdomainPrefixes: c.GetStringSlice("extractor.subdomain_prefixes"),
		PersonalDomains:   c.GetStringSlice("extractor.personal_domains"),
	}
}

// GetKeywordSets returns the classifier phrase sets.
// Lists in keywords.file replace the configured list for that status.
func (c *Config) GetKeywordSets() (core.KeywordSets, error) {
	interview := c.GetStringSlice("keywords.interview")
	rejected := c.GetStringSlice("keywords.rejected")
	pending := c.GetStringSlice("keywords.pending")

	if path := c.GetString("keywords.file"); path != "" {
		kf, err := loadKeywordFile(path)
		if err != nil {
			return core.KeywordSets{}, err
		}
		if len(kf.Interview) > 0 {
			interview = kf.Interview
		}
		if len(kf.Rejected) > 0 {
			rejected = kf.Rejected
		}
		if len(kf.Pending) > 0 {
			pending = kf.Pending
		}
	}

	return core.KeywordSets{
		Interview: core.NewPhraseSet(interview...),
		Rejected:  core.NewPhraseSet(rejected...),
		Pending:   core.NewPhraseSet(pending...),
	}, nil
}

// loadKeywordFile reads a YAML phrase file with interview, rejected and pending lists
func loadKeywordFile(path string) (*keywordFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword file: %w", err)
	}
	var kf keywordFile
	if err := yaml.Unmarshal(b, &kf); err != nil {
		return nil, fmt.Errorf("failed to parse keyword file %s: %w", path, err)
	}
	return &kf, nil
}

// GetMail returns the mailbox configuration. Credentials fall back to
// <PROVIDER>_USERNAME and <PROVIDER>_APP_PASSWORD environment variables.
func (c *Config) GetMail() (MailConfig, error) {
	timeout, err := c.GetDuration("mail.timeout")
	if err != nil {
		return MailConfig{}, fmt.Errorf("invalid mail timeout: %w", err)
	}

	mc := MailConfig{
		Provider:   strings.ToLower(c.GetString("mail.provider")),
		Username:   c.GetString("mail.username"),
		Password:   c.GetString("mail.password"),
		IMAPHost:   c.GetString("mail.imap_host"),
		IMAPPort:   c.GetInt("mail.imap_port"),
		Mailbox:    c.GetString("mail.mailbox"),
		Limit:      c.GetInt("mail.limit"),
		SinceDays:  c.GetInt("mail.since_days"),
		UseKeyring: c.GetBool("mail.use_keyring"),
		Timeout:    timeout,
	}

	prefix := strings.ToUpper(mc.Provider)
	if mc.Username == "" && prefix != "" {
		mc.Username = os.Getenv(prefix + "_USERNAME")
	}
	if mc.Password == "" && prefix != "" {
		mc.Password = os.Getenv(prefix + "_APP_PASSWORD")
	}
	return mc, nil
}

// GetInbox returns the SMTP intake configuration
func (c *Config) GetInbox() InboxConfig {
	return InboxConfig{
		ListenAddress:   c.GetString("inbox.listen_address"),
		Domain:          c.GetString("inbox.domain"),
		StorePath:       c.GetString("inbox.store_path"),
		MaxMessageBytes: int64(c.GetInt("inbox.max_message_bytes")),
	}
}

// GetAdvisor returns the advisor configuration
func (c *Config) GetAdvisor() (AdvisorConfig, error) {
	timeout, err := c.GetDuration("advisor.timeout")
	if err != nil {
		return AdvisorConfig{}, fmt.Errorf("invalid advisor timeout: %w", err)
	}
	return AdvisorConfig{
		Provider:          c.GetString("llm.provider"),
		Concurrency:       c.GetInt("advisor.concurrency"),
		RequestsPerSecond: c.GetFloat64("advisor.requests_per_second"),
		Burst:             c.GetInt("advisor.burst"),
		Timeout:           timeout,
	}, nil
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache ttl: %w", err)
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       os.ExpandEnv(c.GetString("cache.sqlite_path")),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		RedisAddr:        c.GetString("cache.redis_addr"),
		RedisPassword:    c.GetString("cache.redis_password"),
		RedisDB:          c.GetInt("cache.redis_db"),
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}
