package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Catalog CatalogConfig
	Import  ImportConfig
	API     APIConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

type ImportConfig struct {
	PollInterval time.Duration
}

// APIConfig holds the bearer token protecting write endpoints.
type APIConfig struct {
	Token string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Catalog: CatalogConfig{
			CacheTTL: 60 * time.Second,
		},
		Import: ImportConfig{
			PollInterval: 500 * time.Millisecond,
		},
	}
}

// Load reads configuration from the YAML config file at
// $XDG_CONFIG_HOME/culturelens/config.yaml, then applies CULTURELENS_*
// environment overrides. The API token comes from CULTURELENS_API_TOKEN or
// the secrets file; when neither has one a token is generated and saved.
func Load() (Config, error) {
	return loadWith(openYAMLFile(ConfigFilePath()), fileSecrets{path: secretsFilePath()})
}

const (
	secretService = "culturelens"
	secretAccount = "api_token"
)

func loadWith(b Backend, sec secretStore) (Config, error) {
	cfg := defaults()
	applyBackend(&cfg, b)
	applyEnvOverrides(&cfg)

	if cfg.API.Token == "" {
		if tok, err := sec.Get(secretService, secretAccount); err == nil && tok != "" {
			cfg.API.Token = tok
		}
	}

	if cfg.API.Token == "" {
		tok, err := generateToken()
		if err != nil {
			return Config{}, fmt.Errorf("generating API token: %w", err)
		}
		if err := sec.Set(secretService, secretAccount, tok); err != nil {
			return Config{}, fmt.Errorf("saving API token: %w", err)
		}
		cfg.API.Token = tok
	}

	return cfg, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
