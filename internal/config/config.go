package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/routewatch/internal/prefs"
)

// Config holds everything routewatch reads from its config file.
type Config struct {
	APIURL        string
	APIToken      string
	FocusInterval time.Duration
	BlurInterval  time.Duration
	LogLevel      string
	LogFile       string
	Prefs         prefs.Options
}

const (
	defaultConfigPath    = "~/.config/routewatch/config.toml"
	defaultAPIURL        = "http://127.0.0.1:8080"
	defaultFocusInterval = 10 * time.Second
	defaultBlurInterval  = 60 * time.Second
	defaultLogLevel      = "info"
	defaultLogFile       = "~/.local/state/routewatch/routewatch.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:        defaultAPIURL,
		FocusInterval: defaultFocusInterval,
		BlurInterval:  defaultBlurInterval,
		LogLevel:      defaultLogLevel,
		LogFile:       mustExpand(defaultLogFile),
		Prefs:         prefs.Options{Backend: prefs.BackendFile},
	}
}

type fileConfig struct {
	APIURL        string `toml:"api_url"`
	APIToken      string `toml:"api_token"`
	FocusInterval string `toml:"focus_interval"`
	BlurInterval  string `toml:"blur_interval"`
	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
	Prefs         struct {
		Backend       string `toml:"backend"`
		Path          string `toml:"path"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
	} `toml:"prefs"`
}

// Load locates and parses the config, falling back to defaults when the
// file is missing. LOG_LEVEL in the environment overrides log_level.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.APIToken = strings.TrimSpace(raw.APIToken)
	if cfg.FocusInterval, err = parseInterval("focus_interval", raw.FocusInterval, defaultFocusInterval); err != nil {
		return Config{}, err
	}
	if cfg.BlurInterval, err = parseInterval("blur_interval", raw.BlurInterval, defaultBlurInterval); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	if v := strings.TrimSpace(raw.Prefs.Backend); v != "" {
		cfg.Prefs.Backend = strings.ToLower(v)
	}
	cfg.Prefs.Path = strings.TrimSpace(raw.Prefs.Path)
	cfg.Prefs.RedisAddr = strings.TrimSpace(raw.Prefs.RedisAddr)
	cfg.Prefs.RedisPassword = raw.Prefs.RedisPassword

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func parseInterval(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: must be positive, got %s", key, d)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
