package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/outlet/internal/errors"
	"github.com/vango-dev/outlet/pkg/storage"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "outlet.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "OUTLET_"

	// DefaultRoutesFile is the route file used when none is configured.
	DefaultRoutesFile = "routes.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 3000

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
	BackendS3     = "s3"
)

// Config represents the complete outlet.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" env:"NAME"`

	// Routes is the route file (.json or .toml), relative to the config.
	Routes string `json:"routes,omitempty" env:"ROUTES"`

	// Entry is the URL resolved when no persisted route exists.
	Entry string `json:"entry,omitempty" env:"ENTRY"`

	// History records push navigations in the history stack.
	History bool `json:"history,omitempty" env:"HISTORY"`

	// Memory persists the last pushed URL in the storage backend.
	Memory bool `json:"memory,omitempty" env:"MEMORY"`

	// Local makes the served router's outlets start their own tree.
	Local bool `json:"local,omitempty" env:"LOCAL"`

	// Storage configures route persistence.
	Storage StorageConfig `json:"storage,omitempty" envPrefix:"STORAGE_"`

	// Inspector configures the HTTP inspector started by "outlet serve".
	Inspector InspectorConfig `json:"inspector,omitempty" envPrefix:"INSPECTOR_"`

	// Log configures structured logging.
	Log LogConfig `json:"log,omitempty" envPrefix:"LOG_"`

	// Metrics configures Prometheus metric names.
	Metrics MetricsConfig `json:"metrics,omitempty" envPrefix:"METRICS_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is "memory", "sql" or "s3".
	Backend string `json:"backend,omitempty" env:"BACKEND"`

	// Driver is the database/sql driver name (default: "sqlite").
	Driver string `json:"driver,omitempty" env:"DRIVER"`

	// DSN is the database connection string.
	DSN string `json:"dsn,omitempty" env:"DSN"`

	// Dialect is "postgres", "mysql" or "sqlite" (default: "sqlite").
	Dialect string `json:"dialect,omitempty" env:"DIALECT"`

	// Table is the SQL table name.
	Table string `json:"table,omitempty" env:"TABLE"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty" env:"BUCKET"`

	// Prefix is prepended to S3 object keys.
	Prefix string `json:"prefix,omitempty" env:"PREFIX"`

	// Region is the S3 region.
	Region string `json:"region,omitempty" env:"REGION"`

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string `json:"endpoint,omitempty" env:"ENDPOINT"`

	// PathStyle forces path-style S3 addressing.
	PathStyle bool `json:"pathStyle,omitempty" env:"PATH_STYLE"`

	// AccessKeyID and SecretAccessKey are static S3 credentials. They are
	// usually supplied through the environment only.
	AccessKeyID     string `json:"accessKeyId,omitempty" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" env:"SECRET_ACCESS_KEY"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" env:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" env:"PORT"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig contains metric naming settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name (default: "outlet").
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
}

// New returns a Config with defaults.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads outlet.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads the configuration at path, applies environment
// overrides and defaults, and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No outlet.json found in " + filepath.Dir(path)).
				WithSuggestion("Create outlet.json or pass --config")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse outlet.json: " + err.Error())
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from OUTLET_* variables. A nil environ reads
// the process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("E122").Wrap(err)
	}
	return nil
}

// Save writes the configuration back to where it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from or saved to.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Routes == "" {
		c.Routes = DefaultRoutesFile
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendMemory
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Dialect == "" {
		c.Storage.Dialect = "sqlite"
	}
	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "outlet"
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("E121").
			WithDetail("inspector.port must be between 0 and 65535")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQL:
		if c.Storage.DSN == "" {
			return errors.New("E121").
				WithDetail("storage.dsn is required for the sql backend")
		}
		if _, err := storage.ParseDialect(c.Storage.Dialect); err != nil {
			return errors.New("E121").
				WithDetail("storage.dialect: " + err.Error())
		}
	case BackendS3:
		if c.Storage.Bucket == "" {
			return errors.New("E121").
				WithDetail("storage.bucket is required for the s3 backend")
		}
	default:
		return errors.New("E121").
			WithDetail("storage.backend must be one of memory, sql, s3; got " + strconv.Quote(c.Storage.Backend))
	}

	if _, err := c.SlogLevel(); err != nil {
		return errors.New("E121").WithDetail("log.level: " + err.Error())
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return errors.New("E121").
			WithDetail("log.format must be text or json; got " + strconv.Quote(c.Log.Format))
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// InspectorAddress returns host:port for the inspector.
func (c *Config) InspectorAddress() string {
	return net.JoinHostPort(c.Inspector.Host, strconv.Itoa(c.Inspector.Port))
}

// RoutesPath returns the absolute path of the route file.
func (c *Config) RoutesPath() string {
	path := c.Routes
	if path == "" {
		path = DefaultRoutesFile
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if outlet.json exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing outlet.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No outlet.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest ancestor holding outlet.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
