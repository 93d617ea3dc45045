// Package config provides configuration loading and path management for the
// webide client.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mobidic/webide/pkg/types"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the HTTP(S) base URL of the backend. The execution
	// websocket URL is derived from it.
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	// Token is the bearer token for authenticated endpoints. The execution
	// transport itself is unauthenticated.
	Token string `json:"token" yaml:"token"`
	// Language is the default execution language when a file's extension
	// is not recognized.
	Language types.Language `json:"language" yaml:"language"`
	// LogLevel is the minimum log level (DEBUG|INFO|WARN|ERROR|FATAL).
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// Default returns the baseline configuration before any file or env overrides.
func Default() *Config {
	return &Config{
		BaseURL:  "http://localhost:8080",
		Language: types.LangPython,
		LogLevel: "INFO",
	}
}

// Load loads configuration from multiple sources (priority order):
// 1. Global config (~/.config/webide/)
// 2. Project config (webide.json[c]|webide.yaml in the directory, then .webide/)
// 3. WEBIDE_CONFIG file
// 4. Environment variables
func Load(directory string) (*Config, error) {
	cfg := Default()

	loaded := make(map[string]bool)

	loadOnce := func(path string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, cfg) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Global config
	globalPath := GetPaths().Config
	loadOnce(filepath.Join(globalPath, "webide.json"))
	loadOnce(filepath.Join(globalPath, "webide.jsonc"))
	loadOnce(filepath.Join(globalPath, "webide.yaml"))

	// 2. Project config
	if directory != "" {
		loadOnce(filepath.Join(directory, "webide.json"))
		loadOnce(filepath.Join(directory, "webide.jsonc"))
		loadOnce(filepath.Join(directory, "webide.yaml"))
		projectDir := filepath.Join(directory, ".webide")
		loadOnce(filepath.Join(projectDir, "webide.json"))
		loadOnce(filepath.Join(projectDir, "webide.jsonc"))
		loadOnce(filepath.Join(projectDir, "webide.yaml"))
	}

	// 3. WEBIDE_CONFIG file override
	if configPath := os.Getenv("WEBIDE_CONFIG"); configPath != "" {
		loadOnce(configPath)
	}

	// 4. Environment variables (highest priority)
	applyEnvOverrides(cfg)

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// loadConfigFile loads a single config file, dispatching on extension.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	var fileCfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return err
		}
	default:
		// Strip JSONC comments using tidwall/jsonc
		data = jsonc.ToJSON(data)
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return err
		}
	}

	merge(cfg, &fileCfg)
	return nil
}

// merge overlays non-zero fields of src onto dst.
func merge(dst, src *Config) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Token != "" {
		dst.Token = src.Token
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

// applyEnvOverrides applies WEBIDE_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEBIDE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("WEBIDE_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("WEBIDE_LANGUAGE"); v != "" {
		cfg.Language = types.Language(strings.ToLower(v))
	}
	if v := os.Getenv("WEBIDE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
