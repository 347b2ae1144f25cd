package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
	Env  string `toml:"env"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// InferenceConfig carries the company-size tier boundaries for the
// relationship inference engine.
type InferenceConfig struct {
	SmallCompanyThreshold int `toml:"small_company_threshold"`
	LargeCompanyThreshold int `toml:"large_company_threshold"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Neo4j     Neo4jConfig     `toml:"neo4j"`
	Inference InferenceConfig `toml:"inference"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Env:  "development",
		},
		Neo4j: Neo4jConfig{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
		Inference: InferenceConfig{
			SmallCompanyThreshold: 10,
			LargeCompanyThreshold: 200,
		},
	}
}

// Load reads the TOML config file, falling back to defaults when the file is
// absent, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg.applyEnv()

	if cfg.Inference.SmallCompanyThreshold <= 0 {
		cfg.Inference.SmallCompanyThreshold = 10
	}
	if cfg.Inference.LargeCompanyThreshold <= 0 {
		cfg.Inference.LargeCompanyThreshold = 200
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if env := os.Getenv("ENV"); env != "" {
		c.Server.Env = env
	}
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		c.Neo4j.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		c.Neo4j.User = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		c.Neo4j.Password = pass
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
