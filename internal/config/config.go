package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Paths    PathsConfig    `yaml:"paths"`
	API      APIConfig      `yaml:"api"`
	Capture  CaptureConfig  `yaml:"capture"`
}

// DefaultsConfig holds default values
type DefaultsConfig struct {
	Model  string `yaml:"model"`
	Prompt string `yaml:"prompt"`
}

// PathsConfig holds custom path overrides
type PathsConfig struct {
	Python   string `yaml:"python"`
	YtDlp    string `yaml:"yt_dlp"`
	Script   string `yaml:"script"`
	CacheDir string `yaml:"cache_dir"`
}

// APIConfig configures the notes endpoint
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// CaptureConfig configures microphone recording
type CaptureConfig struct {
	SampleRate  int    `yaml:"sample_rate"`
	SettleDelay string `yaml:"settle_delay"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Model:  "gpt-4.1-nano",
			Prompt: "standard",
		},
		API: APIConfig{
			BaseURL: "https://api.openai.com/v1",
			Timeout: "2m",
		},
		Capture: CaptureConfig{
			SampleRate:  16000,
			SettleDelay: "500ms",
		},
	}
}

// AppDir returns the application directory (~/.lecturenotes)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lecturenotes"
	}
	return filepath.Join(home, ".lecturenotes")
}

// DefaultCacheDir returns the artifact directory used when none is configured
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(AppDir(), "cache")
	}
	return filepath.Join(home, "Downloads", "LectureToNotesCache")
}

// BinDir returns the bin directory
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// EngineDir returns where the transcription script is installed
func EngineDir() string {
	return filepath.Join(AppDir(), "engine")
}

// LogDir returns the log directory
func LogDir() string {
	return filepath.Join(AppDir(), "logs")
}

// KeyringDir returns the file keyring fallback directory
func KeyringDir() string {
	return filepath.Join(AppDir(), "keyring")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// CacheDir returns the configured artifact directory
func (c *Config) CacheDir() string {
	if c.Paths.CacheDir != "" {
		return expandHome(c.Paths.CacheDir)
	}
	return DefaultCacheDir()
}

// EnsureDirs creates all required directories
func (c *Config) EnsureDirs() error {
	dirs := []string{AppDir(), BinDir(), EngineDir(), LogDir(), c.CacheDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads config from default path
func LoadDefault() (*Config, error) {
	return Load(ConfigPath())
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveDefault saves config to default path
func (c *Config) SaveDefault() error {
	return c.Save(ConfigPath())
}

// GetTimeout returns the notes API timeout
func (c *Config) GetTimeout() (time.Duration, error) {
	return ParseDuration(c.API.Timeout)
}

// GetSettleDelay returns the pause between stopping a recording and reading it
func (c *Config) GetSettleDelay() (time.Duration, error) {
	return ParseDuration(c.Capture.SettleDelay)
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

var durationPattern = regexp.MustCompile(`^(\d+)(ms|s|m|h|d)$`)

// ParseDuration parses duration strings like "500ms", "30s", "2m", "24h", "7d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 500ms, 30s, 2m)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "ms":
		return time.Duration(value) * time.Millisecond, nil
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
