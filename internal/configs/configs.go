/*
Package configs loads shopreco's settings.

Values are layered the usual way: struct defaults first, then an optional YAML file
(CONFIG_PATH or ./config.yaml), then environment variables, which always win. The
result is validated before it is handed to the rest of the program.
*/
package configs

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// AppConfig contains everything the api, console and serve commands need.
type AppConfig struct {
	// Environment is "development", "production" or "test".
	Environment string `koanf:"environment" validate:"oneof=development production test"`

	// Port is where the backend API listens.
	Port int `koanf:"port" validate:"min=1024,max=65535"`

	// ConsolePort is where the console page server listens.
	ConsolePort int `koanf:"console_port" validate:"min=1024,max=65535"`

	// AllowedOrigins feeds CORS and the websocket origin check outside development.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// WriteRate and WriteBurst bound add-user/add-purchase calls per client IP.
	WriteRate  float64 `koanf:"write_rate" validate:"gt=0"`
	WriteBurst int     `koanf:"write_burst" validate:"min=1"`

	Client    ClientConfig    `koanf:"client"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Storage   StorageConfig   `koanf:"storage"`

	// DatabaseDSN selects the Postgres store; empty keeps users and purchases in memory.
	DatabaseDSN string `koanf:"database_url"`

	// RedisAddr enables the recommendation cache; empty disables it.
	RedisAddr string `koanf:"redis_addr"`
}

// ClientConfig configures the console's transport adapter.
type ClientConfig struct {
	// BackendURL is the base URL of the backend API.
	BackendURL string `koanf:"backend_url" validate:"required,url"`

	// RequestTimeout bounds one backend round trip.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

// CatalogConfig says where the product CSV comes from and how much of it is listed.
type CatalogConfig struct {
	// Path is a local CSV file. Ignored when S3Key is set.
	Path string `koanf:"path"`

	// S3Key is the object key of the CSV in Storage.S3BucketName.
	S3Key string `koanf:"s3_key"`

	// Limit caps the products returned by GET /api/products.
	Limit int `koanf:"limit" validate:"min=1"`
}

// RecommendConfig tunes the recommendations endpoint.
type RecommendConfig struct {
	DefaultCount int           `koanf:"default_count" validate:"min=1"`
	MaxCount     int           `koanf:"max_count" validate:"min=1,gtefield=DefaultCount"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// StorageConfig holds S3-compatible object storage credentials.
type StorageConfig struct {
	S3BucketName      string `koanf:"s3_bucket_name"`
	S3Endpoint        string `koanf:"s3_endpoint" validate:"required_with=S3BucketName"`
	S3AccessKeyID     string `koanf:"s3_access_key_id" validate:"required_with=S3BucketName"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key" validate:"required_with=S3BucketName"`
}

// IsDevelopment reports whether the development environment is selected.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Environment:    "development",
		Port:           8080,
		ConsolePort:    8090,
		AllowedOrigins: []string{},
		WriteRate:      1,
		WriteBurst:     5,
		Client: ClientConfig{
			BackendURL:     "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Limit: 50,
		},
		Recommend: RecommendConfig{
			DefaultCount: 5,
			MaxCount:     50,
			CacheTTL:     time.Minute,
		},
	}
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"environment":              "environment",
	"port":                     "port",
	"console_port":             "console_port",
	"allowed_origins":          "allowed_origins",
	"write_rate":               "write_rate",
	"write_burst":              "write_burst",
	"backend_url":              "client.backend_url",
	"request_timeout":          "client.request_timeout",
	"catalog_path":             "catalog.path",
	"catalog_s3_key":           "catalog.s3_key",
	"catalog_limit":            "catalog.limit",
	"default_recommendations":  "recommend.default_count",
	"max_recommendations":      "recommend.max_count",
	"recommendation_cache_ttl": "recommend.cache_ttl",
	"s3_bucket_name":           "storage.s3_bucket_name",
	"s3_endpoint":              "storage.s3_endpoint",
	"s3_access_key_id":         "storage.s3_access_key_id",
	"s3_secret_access_key":     "storage.s3_secret_access_key",
	"database_url":             "database_url",
	"redis_addr":               "redis_addr",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// LoadConfig builds the AppConfig from defaults, the optional file and the environment.
func LoadConfig() (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCSV(k, "allowed_origins"); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c *AppConfig) Validate() error {
	return validator.New().Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// splitCSV turns a comma-separated string value (as env vars deliver it) into a slice.
func splitCSV(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	parts := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
