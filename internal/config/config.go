// Package config handles TOML configuration loading, environment overrides and validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/chat-gateway/config.toml",
	"configs/config.toml",
}

// Backend names. Each one owns a [backends.<name>] section and a
// <NAME>_SERVICE_BASE_URL environment override.
const (
	BackendChannels   = "channels"
	BackendUsers      = "users"
	BackendMessages   = "messages"
	BackendThreads    = "threads"
	BackendModeration = "moderation"
	BackendPresence   = "presence"
	BackendSearch     = "search"
	BackendFiles      = "files"
	BackendWikipedia  = "wikipedia"
	BackendChatbot    = "chatbot"
)

// backendDefault is the documented fallback for a backend that is configured
// neither in the file nor in the environment.
type backendDefault struct {
	baseURL string
	// generative marks backends that call an LLM and get the long timeout profile.
	generative bool
}

var backendDefaults = map[string]backendDefault{
	BackendChannels:   {baseURL: "https://channel-api.inf326.nur.dev"},
	BackendUsers:      {baseURL: "https://users.inf326.nursoft.dev"},
	BackendMessages:   {baseURL: "https://messages-service.kroder.dev"},
	BackendThreads:    {baseURL: "http://localhost:8004"},
	BackendModeration: {baseURL: "https://moderation.inf326.nur.dev"},
	BackendPresence:   {baseURL: "http://localhost:8006"},
	BackendSearch:     {baseURL: "http://localhost:8007"},
	BackendFiles:      {baseURL: "http://localhost:8008"},
	BackendWikipedia:  {baseURL: "http://localhost:8009", generative: true},
	BackendChatbot:    {baseURL: "http://localhost:8010", generative: true},
}

// BackendNames returns every known backend name in sorted order.
func BackendNames() []string {
	names := make([]string, 0, len(backendDefaults))
	for name := range backendDefaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CLI holds command-line arguments parsed by Kong.
type CLI struct {
	Config      string `kong:"short='c',help='Path to TOML config file.',env='CONFIG_PATH'"`
	Host        string `kong:"help='Listen host (overrides config).',env='HOST'"`
	Port        int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	LogLevel    string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
	Environment string `kong:"help='Deployment environment name (overrides config).',env='ENVIRONMENT'"`
}

// backendEnv maps the per-backend base URL environment variables.
type backendEnv struct {
	Channels   string `envconfig:"CHANNELS_SERVICE_BASE_URL"`
	Users      string `envconfig:"USERS_SERVICE_BASE_URL"`
	Messages   string `envconfig:"MESSAGES_SERVICE_BASE_URL"`
	Threads    string `envconfig:"THREADS_SERVICE_BASE_URL"`
	Moderation string `envconfig:"MODERATION_SERVICE_BASE_URL"`
	Presence   string `envconfig:"PRESENCE_SERVICE_BASE_URL"`
	Search     string `envconfig:"SEARCH_SERVICE_BASE_URL"`
	Files      string `envconfig:"FILES_SERVICE_BASE_URL"`
	Wikipedia  string `envconfig:"WIKIPEDIA_SERVICE_BASE_URL"`
	Chatbot    string `envconfig:"CHATBOT_SERVICE_BASE_URL"`
}

func (e *backendEnv) byName() map[string]string {
	return map[string]string{
		BackendChannels:   e.Channels,
		BackendUsers:      e.Users,
		BackendMessages:   e.Messages,
		BackendThreads:    e.Threads,
		BackendModeration: e.Moderation,
		BackendPresence:   e.Presence,
		BackendSearch:     e.Search,
		BackendFiles:      e.Files,
		BackendWikipedia:  e.Wikipedia,
		BackendChatbot:    e.Chatbot,
	}
}

// Config is the top-level application configuration.
type Config struct {
	Environment string                   `toml:"environment"`
	Server      ServerConfig             `toml:"server"`
	Upstream    UpstreamConfig           `toml:"upstream"`
	Backends    map[string]BackendConfig `toml:"backends"`
	Search      SearchConfig             `toml:"search"`
	Log         LogConfig                `toml:"log"`
	Metrics     MetricsConfig            `toml:"metrics"`
	Tracing     TracingConfig            `toml:"tracing"`

	filePath string // resolved config file path (unexported)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means "use default" (8000); TOML cannot distinguish 0 from unset
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// UpstreamConfig holds settings shared by every backend connection pool.
type UpstreamConfig struct {
	IdleConnections int           `toml:"idle_connections"`
	Retry           RetryConfig   `toml:"retry"`
	Breaker         BreakerConfig `toml:"breaker"`
}

// RetryConfig bounds retries of idempotent GET calls after network failures.
// MaxRetries of 0 disables retrying.
type RetryConfig struct {
	MaxRetries        int `toml:"max_retries"`
	InitialIntervalMS int `toml:"initial_interval_ms"`
	MaxIntervalMS     int `toml:"max_interval_ms"`
}

// BreakerConfig controls the per-backend circuit breaker.
type BreakerConfig struct {
	Enabled             bool `toml:"enabled"`
	ConsecutiveFailures int  `toml:"consecutive_failures"`
	OpenSeconds         int  `toml:"open_seconds"`
	HalfOpenRequests    int  `toml:"half_open_requests"`
}

// BackendConfig holds the address and timeout policy of one backend.
type BackendConfig struct {
	BaseURL               string `toml:"base_url"`
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds   int    `toml:"write_timeout_seconds"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
}

// ConnectTimeout bounds TCP/TLS connection establishment.
func (b BackendConfig) ConnectTimeout() time.Duration {
	return time.Duration(b.ConnectTimeoutSeconds) * time.Second
}

// ReadTimeout bounds the wait for response headers once the request is written.
func (b BackendConfig) ReadTimeout() time.Duration {
	return time.Duration(b.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout bounds each write of the request on the connection.
func (b BackendConfig) WriteTimeout() time.Duration {
	return time.Duration(b.WriteTimeoutSeconds) * time.Second
}

// Timeout bounds the whole exchange including reading the body.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// SearchConfig controls composite search dispatch.
type SearchConfig struct {
	// FanOut issues one concurrent sub-call per requested index kind instead of
	// a single call carrying a repeated index parameter.
	FanOut bool `toml:"fan_out"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
}

// Load reads the TOML config file, applies CLI and environment overrides and
// validates the result. When no explicit path is given (via --config or
// CONFIG_PATH), it searches /etc/chat-gateway/config.toml then
// configs/config.toml; if neither exists the gateway runs on defaults.
func Load(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = findConfig()
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	}

	cfg.applyCLI(cli)

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
	if cli.Environment != "" {
		c.Environment = cli.Environment
	}
}

// applyEnv overrides backend base URLs with non-empty *_SERVICE_BASE_URL variables.
func (c *Config) applyEnv() error {
	var env backendEnv
	if err := envconfig.Process("", &env); err != nil {
		return err
	}
	if c.Backends == nil {
		c.Backends = make(map[string]BackendConfig)
	}
	for name, baseURL := range env.byName() {
		if baseURL == "" {
			continue
		}
		b := c.Backends[name]
		b.BaseURL = baseURL
		c.Backends[name] = b
	}
	return nil
}

func (c *Config) validate() error {
	for name := range c.Backends {
		if _, ok := backendDefaults[name]; !ok {
			return fmt.Errorf("backends.%s is not a known backend (known: %s)", name, strings.Join(BackendNames(), ", "))
		}
	}
	for _, name := range BackendNames() {
		if err := c.Backends[name].validate(name); err != nil {
			return err
		}
	}

	// Numeric bounds.
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0-65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.Upstream.IdleConnections < 0 {
		return fmt.Errorf("upstream.idle_connections must be non-negative; got %d", c.Upstream.IdleConnections)
	}
	if c.Upstream.Retry.MaxRetries < 0 {
		return fmt.Errorf("upstream.retry.max_retries must be non-negative; got %d", c.Upstream.Retry.MaxRetries)
	}
	if c.Upstream.Retry.InitialIntervalMS < 0 || c.Upstream.Retry.MaxIntervalMS < 0 {
		return errors.New("upstream.retry intervals must be non-negative")
	}
	if c.Upstream.Breaker.Enabled && c.Upstream.Breaker.ConsecutiveFailures <= 0 {
		return fmt.Errorf("upstream.breaker.consecutive_failures must be > 0 when the breaker is enabled; got %d", c.Upstream.Breaker.ConsecutiveFailures)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", c.Server.RateLimit.RequestsPerSecond)
	}

	// Log fields.
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
		// valid
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "":
		// valid
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	// Metrics path validation (only when metrics are enabled).
	if c.Metrics.Enabled && c.Metrics.Path != "" {
		p := c.Metrics.Path
		if p[0] != '/' {
			return fmt.Errorf("metrics.path must start with '/'; got %q", p)
		}
		for _, reserved := range []string{"/api/v1", "/healthz", "/gateway/status"} {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
		if p == "/" {
			return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, "/")
		}
	}

	return nil
}

func (b BackendConfig) validate(name string) error {
	if b.BaseURL == "" {
		return fmt.Errorf("backends.%s.base_url is required", name)
	}
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("backends.%s.base_url is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backends.%s.base_url must use http or https; got %q", name, b.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backends.%s.base_url has no host; got %q", name, b.BaseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("backends.%s.base_url must not carry a query or fragment; got %q", name, b.BaseURL)
	}
	if b.ConnectTimeoutSeconds < 0 || b.ReadTimeoutSeconds < 0 || b.WriteTimeoutSeconds < 0 || b.TimeoutSeconds < 0 {
		return fmt.Errorf("backends.%s timeouts must be non-negative", name)
	}
	return nil
}

// setDefaults fills zero-valued fields with sensible defaults.
// For integer fields (Port, BodyMaxBytes, etc.), zero means "unset" because TOML
// cannot distinguish between an explicit 0 and an omitted key.
func (c *Config) setDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 25 * 1024 * 1024 // 25 MB, file uploads pass through
	}
	if c.Upstream.IdleConnections == 0 {
		c.Upstream.IdleConnections = 100
	}
	if c.Upstream.Retry.InitialIntervalMS == 0 {
		c.Upstream.Retry.InitialIntervalMS = 100
	}
	if c.Upstream.Retry.MaxIntervalMS == 0 {
		c.Upstream.Retry.MaxIntervalMS = 2000
	}
	if c.Upstream.Breaker.ConsecutiveFailures == 0 {
		c.Upstream.Breaker.ConsecutiveFailures = 5
	}
	if c.Upstream.Breaker.OpenSeconds == 0 {
		c.Upstream.Breaker.OpenSeconds = 30
	}
	if c.Upstream.Breaker.HalfOpenRequests == 0 {
		c.Upstream.Breaker.HalfOpenRequests = 1
	}

	if c.Backends == nil {
		c.Backends = make(map[string]BackendConfig)
	}
	for name, def := range backendDefaults {
		b := c.Backends[name]
		if b.BaseURL == "" {
			b.BaseURL = def.baseURL
		}
		b.fillTimeouts(def.generative)
		c.Backends[name] = b
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "chat-gateway"
	}
}

// fillTimeouts applies the short CRUD profile, or the long profile for
// backends that run generative models.
func (b *BackendConfig) fillTimeouts(generative bool) {
	connect, read, write, total := 5, 15, 10, 30
	if generative {
		connect, read, write, total = 10, 60, 10, 60
	}
	if b.ConnectTimeoutSeconds == 0 {
		b.ConnectTimeoutSeconds = connect
	}
	if b.ReadTimeoutSeconds == 0 {
		b.ReadTimeoutSeconds = read
	}
	if b.WriteTimeoutSeconds == 0 {
		b.WriteTimeoutSeconds = write
	}
	if b.TimeoutSeconds == 0 {
		b.TimeoutSeconds = total
	}
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
