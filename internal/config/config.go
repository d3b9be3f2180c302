// Package config loads the yaml deployment config and the env-carried
// secrets. Secrets never live in the yaml file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Upstream struct {
		Provider string `yaml:"provider"` // yandex | openai
		Model    string `yaml:"model"`
		FolderID string `yaml:"folderId"`
	} `yaml:"upstream"`

	Templates struct {
		Source string `yaml:"source"` // fs | minio
		Dir    string `yaml:"dir"`

		Minio struct {
			Endpoint  string `yaml:"endpoint"`
			AccessKey string `yaml:"accessKey"`
			SecretKey string `yaml:"secretKey"`
			Bucket    string `yaml:"bucket"`
			Prefix    string `yaml:"prefix"`
			Region    string `yaml:"region"`
			UseSSL    bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"templates"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load reads the yaml config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Upstream.Provider == "" {
		c.Upstream.Provider = "yandex"
	}
	if c.Templates.Source == "" {
		c.Templates.Source = "fs"
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = "prompts"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 10
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
}

// MySQLDSN builds the DSN for the mysql driver
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the DSN for the pq driver
func (c *Config) PostgresDSN() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		sslMode,
	)
}

// Secrets are process preconditions carried in the environment only.
// A missing secret fails startup; there is no per-request fallback.
type Secrets struct {
	UpstreamAPIKey string // YANDEX_API_KEY or OPENAI_API_KEY by provider
	JWTSecret      string
	EncryptionKey  string // base64, 32 bytes decoded
}

// LoadSecrets reads secrets from the environment, after a best-effort
// .env load for local development.
func LoadSecrets(provider string) (Secrets, error) {
	_ = godotenv.Load()

	s := Secrets{
		JWTSecret:     os.Getenv("JWT_SECRET"),
		EncryptionKey: os.Getenv("ENCRYPTION_KEY"),
	}
	switch provider {
	case "openai":
		s.UpstreamAPIKey = os.Getenv("OPENAI_API_KEY")
	default:
		s.UpstreamAPIKey = os.Getenv("YANDEX_API_KEY")
	}

	if s.UpstreamAPIKey == "" {
		return Secrets{}, fmt.Errorf("upstream api key is not set for provider %q", provider)
	}
	if s.JWTSecret == "" {
		return Secrets{}, fmt.Errorf("JWT_SECRET is not set")
	}
	if s.EncryptionKey == "" {
		return Secrets{}, fmt.Errorf("ENCRYPTION_KEY is not set")
	}
	return s, nil
}
