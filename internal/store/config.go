package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig lives at ~/.cadence/config.json.
type GlobalConfig struct {
	// ServerURL is the dashboard collaborator base URL (e.g. https://ops.example.com).
	ServerURL string `json:"serverUrl,omitempty"`

	// Token is sent as a bearer token on every request when set.
	Token string `json:"token,omitempty"`

	// CacheDir overrides where the offline snapshot cache is kept.
	CacheDir string `json:"cacheDir,omitempty"`
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cadence"), nil
}

func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (GlobalConfig, error) {
	var cfg GlobalConfig
	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.Token = strings.TrimSpace(cfg.Token)
	return cfg, nil
}

func SaveConfig(cfg GlobalConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o600)
}

// DefaultCacheDir resolves the snapshot cache directory:
// config override first, then ~/.cadence/cache.
func DefaultCacheDir(cfg GlobalConfig) (string, error) {
	if strings.TrimSpace(cfg.CacheDir) != "" {
		return cfg.CacheDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}
