package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	LLM       LLMConfig       `yaml:"llm"`
	Planner   PlannerConfig   `yaml:"planner"`
	Storage   StorageConfig   `yaml:"storage"`
	MCP       MCPConfig       `yaml:"mcp"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Production serves StaticDir; otherwise requests are proxied to DevAssetURL.
	Production  bool   `yaml:"production"`
	StaticDir   string `yaml:"static_dir"`
	DevAssetURL string `yaml:"dev_asset_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type LLMConfig struct {
	Provider    string   `yaml:"provider"`
	Endpoint    string   `yaml:"endpoint"`
	Model       string   `yaml:"model"`
	APIKey      string   `yaml:"api_key"`
	TimeoutMs   int      `yaml:"timeout_ms"`
	Temperature *float64 `yaml:"temperature"`
	LogCalls    bool     `yaml:"log_calls"`
}

type PlannerConfig struct {
	StrictValidation *bool `yaml:"strict_validation"`
}

// Strict reports whether semantic validation is on. It defaults to true.
func (p PlannerConfig) Strict() bool {
	return p.StrictValidation == nil || *p.StrictValidation
}

type StorageConfig struct {
	// Driver is "", "sqlite" or "postgres". Empty disables the generation log.
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// StorageDSN returns the data source for the configured storage driver.
func (c *Config) StorageDSN() string {
	if c.Storage.Driver == "postgres" {
		return c.Storage.Postgres.DSN()
	}
	return c.Storage.SQLitePath
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3000,
			StaticDir:   "dist",
			DevAssetURL: "http://localhost:5173",
		},
		Log: LogConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{
			Provider:  "gemini",
			TimeoutMs: 60000,
		},
		Storage: StorageConfig{
			SQLitePath: "rowplan.db",
			Postgres:   DatabaseConfig{Port: 5432},
		},
		Tailscale: TailscaleConfig{Hostname: "rowplan", StateDir: "tsnet-state"},
	}
}

// Load starts from Default, reads the YAML file at path (skipped when path
// is empty), then applies environment variable overrides. Env vars use the
// prefix ROWPLAN_ and underscore-separated paths:
//
//	ROWPLAN_SERVER_HOST, ROWPLAN_SERVER_PORT, ROWPLAN_SERVER_PRODUCTION,
//	ROWPLAN_SERVER_STATIC_DIR, ROWPLAN_SERVER_DEV_ASSET_URL,
//	ROWPLAN_LOG_LEVEL, ROWPLAN_LOG_FORMAT,
//	ROWPLAN_LLM_PROVIDER, ROWPLAN_LLM_ENDPOINT, ROWPLAN_LLM_MODEL,
//	ROWPLAN_LLM_API_KEY (falls back to GEMINI_API_KEY), ROWPLAN_LLM_TIMEOUT_MS,
//	ROWPLAN_PLANNER_STRICT_VALIDATION,
//	ROWPLAN_STORAGE_DRIVER, ROWPLAN_STORAGE_SQLITE_PATH,
//	ROWPLAN_DB_HOST, ROWPLAN_DB_PORT, ROWPLAN_DB_NAME,
//	ROWPLAN_DB_USER, ROWPLAN_DB_PASSWORD, ROWPLAN_DB_SSLMODE,
//	ROWPLAN_MCP_ENABLED, ROWPLAN_TAILSCALE_ENABLED, ROWPLAN_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Host, "ROWPLAN_SERVER_HOST")
	setInt(&cfg.Server.Port, "ROWPLAN_SERVER_PORT")
	setBool(&cfg.Server.Production, "ROWPLAN_SERVER_PRODUCTION")
	setString(&cfg.Server.StaticDir, "ROWPLAN_SERVER_STATIC_DIR")
	setString(&cfg.Server.DevAssetURL, "ROWPLAN_SERVER_DEV_ASSET_URL")

	setString(&cfg.Log.Level, "ROWPLAN_LOG_LEVEL")
	setString(&cfg.Log.Format, "ROWPLAN_LOG_FORMAT")

	setString(&cfg.LLM.Provider, "ROWPLAN_LLM_PROVIDER")
	setString(&cfg.LLM.Endpoint, "ROWPLAN_LLM_ENDPOINT")
	setString(&cfg.LLM.Model, "ROWPLAN_LLM_MODEL")
	setString(&cfg.LLM.APIKey, "ROWPLAN_LLM_API_KEY")
	if cfg.LLM.APIKey == "" {
		setString(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	}
	setInt(&cfg.LLM.TimeoutMs, "ROWPLAN_LLM_TIMEOUT_MS")

	if v := os.Getenv("ROWPLAN_PLANNER_STRICT_VALIDATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Planner.StrictValidation = &b
		}
	}

	setString(&cfg.Storage.Driver, "ROWPLAN_STORAGE_DRIVER")
	setString(&cfg.Storage.SQLitePath, "ROWPLAN_STORAGE_SQLITE_PATH")
	setString(&cfg.Storage.Postgres.Host, "ROWPLAN_DB_HOST")
	setInt(&cfg.Storage.Postgres.Port, "ROWPLAN_DB_PORT")
	setString(&cfg.Storage.Postgres.Name, "ROWPLAN_DB_NAME")
	setString(&cfg.Storage.Postgres.User, "ROWPLAN_DB_USER")
	setString(&cfg.Storage.Postgres.Password, "ROWPLAN_DB_PASSWORD")
	setString(&cfg.Storage.Postgres.SSLMode, "ROWPLAN_DB_SSLMODE")

	setBool(&cfg.MCP.Enabled, "ROWPLAN_MCP_ENABLED")
	setBool(&cfg.Tailscale.Enabled, "ROWPLAN_TAILSCALE_ENABLED")
	setString(&cfg.Tailscale.Hostname, "ROWPLAN_TAILSCALE_HOSTNAME")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.Production && c.Server.StaticDir == "" {
		return fmt.Errorf("server.static_dir is required in production")
	}
	if !c.Server.Production && c.Server.DevAssetURL == "" {
		return fmt.Errorf("server.dev_asset_url is required outside production")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	switch c.LLM.Provider {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("llm.provider must be gemini or ollama")
	}
	if c.LLM.TimeoutMs <= 0 {
		return fmt.Errorf("llm.timeout_ms must be positive")
	}
	switch c.Storage.Driver {
	case "":
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required")
		}
	case "postgres":
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if c.Storage.Postgres.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if c.Storage.Postgres.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.driver must be sqlite or postgres")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required")
	}
	return nil
}
