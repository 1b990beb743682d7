package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sqlmind-engine.
// Values come from config.yaml when present, with environment variables
// always overriding. Secrets (database password, provider API keys) must
// only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Target database connection
	Database DatabaseConfig `yaml:"database"`

	// LLM provider credentials and model selection
	LLM LLMConfig `yaml:"llm"`

	// Query execution bounds
	Query QueryConfig `yaml:"query"`

	// MCP tool surface
	MCP MCPConfig `yaml:"mcp"`
}

// DatabaseConfig holds connection parameters for the target database.
type DatabaseConfig struct {
	Driver         string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"postgres"`
	Host           string `yaml:"host" env:"DATABASE_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"DATABASE_PORT" env-default:"5432"`
	Name           string `yaml:"name" env:"DATABASE_NAME" env-default:"postgres"`
	User           string `yaml:"user" env:"DATABASE_USER" env-default:"postgres"`
	Password       string `yaml:"-" env:"DATABASE_PASSWORD"` // Secret - not in YAML
	SSLMode        string `yaml:"ssl_mode" env:"DATABASE_SSL" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"DATABASE_MAX_CONNS" env-default:"10"`
	MinConnections int32  `yaml:"min_connections" env:"DATABASE_MIN_CONNS" env-default:"1"`
}

// LLMConfig holds provider credentials and model defaults. An absent API
// key disables that provider rather than failing startup.
type LLMConfig struct {
	Provider      string `yaml:"provider" env:"LLM_PROVIDER" env-default:"gemini"`
	GeminiAPIKey  string `yaml:"-" env:"GEMINI_API_KEY"` // Secret - not in YAML
	GeminiModel   string `yaml:"gemini_model" env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
	GeminiBaseURL string `yaml:"gemini_base_url" env:"GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	ClaudeAPIKey  string `yaml:"-" env:"CLAUDE_API_KEY"` // Secret - not in YAML
	ClaudeModel   string `yaml:"claude_model" env:"CLAUDE_MODEL" env-default:"claude-sonnet-4-5-20250929"`

	// ExamplesFile optionally points at a YAML file of curated
	// (question, sql) pairs used as few-shot context before any
	// session history exists.
	ExamplesFile string `yaml:"examples_file" env:"EXAMPLES_FILE" env-default:""`
}

// QueryConfig holds the execution bounds applied to every query.
type QueryConfig struct {
	TimeoutMS     int `yaml:"timeout_ms" env:"QUERY_TIMEOUT_MS" env-default:"30000"`
	MaxResultRows int `yaml:"max_result_rows" env:"MAX_RESULT_ROWS" env-default:"1000"`
}

// MCPConfig controls the MCP tool surface.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" env:"MCP_ENABLED" env-default:"true"`
}

// Load reads configuration from config.yaml (when present) with environment
// variable overrides, or from the environment alone. The version parameter
// is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mssql":
	default:
		return fmt.Errorf("unsupported database driver %q (expected postgres or mssql)", c.Database.Driver)
	}
	if c.Query.TimeoutMS <= 0 {
		return fmt.Errorf("query timeout must be positive, got %dms", c.Query.TimeoutMS)
	}
	if c.Query.MaxResultRows <= 0 {
		return fmt.Errorf("max result rows must be positive, got %d", c.Query.MaxResultRows)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.BindAddr, c.Port)
}

// ConnectionString returns a driver-appropriate connection string. The host
// is rewritten for Docker when the engine runs containerized against a
// database on the host machine.
func (c *DatabaseConfig) ConnectionString() string {
	host := ResolveHostForDocker(c.Host)

	switch c.Driver {
	case "mssql":
		u := &url.URL{
			Scheme: "sqlserver",
			User:   url.UserPassword(c.User, c.Password),
			Host:   fmt.Sprintf("%s:%d", host, c.Port),
		}
		q := u.Query()
		q.Set("database", c.Name)
		if c.SSLMode == "disable" {
			q.Set("encrypt", "disable")
		} else {
			q.Set("encrypt", "true")
		}
		u.RawQuery = q.Encode()
		return u.String()
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
		)
	}
}

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker returns true when the process runs inside a Docker
// container, detected by the /.dockerenv marker. Cached after first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// ResolveHostForDocker maps localhost to host.docker.internal when running
// in Docker so the engine can reach a database on the host machine.
func ResolveHostForDocker(host string) string {
	if !IsRunningInDocker() {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}
