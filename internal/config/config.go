package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/juho05/log"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "metaread"

// Environment variables overriding the config files.
const (
	EnvLogLevel = "METAREAD_LOG_LEVEL"
	EnvWorkers  = "METAREAD_WORKERS"
	EnvFFprobe  = "METAREAD_FFPROBE"
)

const (
	maxWorkers           = 12
	defaultProgressEvery = 50
)

type Config struct {
	Scan    ScanConfig    `koanf:"scan"`
	FFprobe FFprobeConfig `koanf:"ffprobe"`
	Log     LogConfig     `koanf:"log"`
}

// ScanConfig holds batch ingestion settings.
type ScanConfig struct {
	Workers         int  `koanf:"workers"`          // resolution pool size (default: min(NumCPU, 12))
	DurationWorkers int  `koanf:"duration_workers"` // concurrent full decodes (default: Workers)
	ProgressEvery   int  `koanf:"progress_every"`   // files per progress message (default: 50)
	FolderArt       bool `koanf:"folder_art"`       // fall back to cover.jpg & co. next to the file
	SidecarLyrics   bool `koanf:"sidecar_lyrics"`   // fall back to the .lrc file next to the file
}

// FFprobeConfig holds the optional ffprobe tag source settings.
type FFprobeConfig struct {
	Enabled *bool  `koanf:"enabled"` // use ffprobe for non-native formats (default: true)
	Path    string `koanf:"path"`    // binary path (default: ffprobe from PATH)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level *int `koanf:"level"` // 0 (none) to 5 (trace) (default: 4)
}

// Load reads the config files, then applies a .env file from the working
// directory and the METAREAD_* environment variables. extra files take
// precedence over the default locations.
func Load(extra ...string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()
	return LoadFrom(append(getConfigPaths(), extra...), os.Environ())
}

// LoadFrom reads the given TOML files, later ones overriding earlier
// ones, then the environment. environ has the format of os.Environ().
// Missing files are skipped.
func LoadFrom(paths []string, environ []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(parseEnviron(environ)); err != nil {
		return nil, err
	}

	if cfg.FFprobe.Path != "" {
		cfg.FFprobe.Path = expandPath(cfg.FFprobe.Path)
	}
	if cfg.Log.Level != nil && (*cfg.Log.Level < int(log.NONE) || *cfg.Log.Level > int(log.TRACE)) {
		return nil, fmt.Errorf("log.level: invalid log level %d: valid values: 0 (none) to 5 (trace)", *cfg.Log.Level)
	}

	return cfg, nil
}

type environment map[string]string

func parseEnviron(environ []string) environment {
	env := make(environment, len(environ))
	for _, e := range environ {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	return env
}

func (c *Config) applyEnv(env environment) error {
	if s := env[EnvLogLevel]; s != "" {
		level, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: invalid log level: must be an integer", EnvLogLevel)
		}
		c.Log.Level = &level
	}

	if s := env[EnvWorkers]; s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: must be a non-negative integer", EnvWorkers)
		}
		c.Scan.Workers = n
	}

	// METAREAD_FFPROBE is either a boolean or the binary path.
	if s := env[EnvFFprobe]; s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			c.FFprobe.Enabled = &b
		} else {
			enabled := true
			c.FFprobe.Enabled = &enabled
			c.FFprobe.Path = s
		}
	}
	return nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/metaread/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Workers returns the resolution pool size with defaults applied.
func (c *Config) Workers() int {
	if c.Scan.Workers <= 0 {
		return min(runtime.NumCPU(), maxWorkers)
	}
	return c.Scan.Workers
}

// DurationWorkers returns the number of concurrent full decodes.
func (c *Config) DurationWorkers() int {
	if c.Scan.DurationWorkers <= 0 {
		return c.Workers()
	}
	return c.Scan.DurationWorkers
}

// ProgressEvery returns how many files trigger a progress message.
func (c *Config) ProgressEvery() int {
	if c.Scan.ProgressEvery <= 0 {
		return defaultProgressEvery
	}
	return c.Scan.ProgressEvery
}

// FFprobeEnabled reports whether ffprobe should be used when found.
func (c *Config) FFprobeEnabled() bool {
	return c.FFprobe.Enabled == nil || *c.FFprobe.Enabled
}

// LogLevel returns the log severity, INFO unless configured.
func (c *Config) LogLevel() log.Severity {
	if c.Log.Level == nil {
		return log.INFO
	}
	return log.Severity(*c.Log.Level)
}
