package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LISTKIT"

// Source kinds understood by the host app.
const (
	SourceMemory = "memory"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Config is the host app configuration. Path is where it was loaded from and
// is not written back.
type Config struct {
	Path string `mapstructure:"-"`

	Source        string        `mapstructure:"source"`
	DBPath        string        `mapstructure:"db_path"`
	URL           string        `mapstructure:"url"`
	Token         string        `mapstructure:"token"`
	PerPage       int           `mapstructure:"per_page"`
	StartPage     int           `mapstructure:"start_page"`
	Loading       string        `mapstructure:"loading"`
	SearchBox     bool          `mapstructure:"search_box"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
}

// DefaultPath returns ~/.listkitrc.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".listkitrc"
	}
	return filepath.Join(home, ".listkitrc")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "listkit.db"
	}
	return filepath.Join(home, ".local", "share", "listkit", "listkit.db")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("source", SourceMemory)
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("per_page", 20)
	v.SetDefault("start_page", 0)
	v.SetDefault("loading", "placeholder")
	v.SetDefault("search_box", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("probe_interval", "5s")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the rc file at path (KEY=VALUE lines) and applies LISTKIT_*
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	v := newViper()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{Path: path}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{Path: path}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Path = path
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	c.Loading = strings.ToLower(strings.TrimSpace(c.Loading))
	return c, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Source {
	case SourceMemory, SourceSQLite, SourceHTTP:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	switch c.Loading {
	case "placeholder", "spin", "none":
	default:
		return fmt.Errorf("unknown loading type %q", c.Loading)
	}
	if c.PerPage <= 0 {
		return errors.New("per_page must be positive")
	}
	if c.Source == SourceHTTP && strings.TrimSpace(c.URL) == "" {
		return errors.New("url required for http source")
	}
	return nil
}

// Encode renders cfg as KEY=VALUE lines in the format Load reads. Empty
// token and log file are omitted.
func Encode(cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SOURCE=%s\n", cfg.Source)
	fmt.Fprintf(&b, "DB_PATH=%s\n", cfg.DBPath)
	fmt.Fprintf(&b, "URL=%s\n", cfg.URL)
	if cfg.Token != "" {
		fmt.Fprintf(&b, "TOKEN=%s\n", cfg.Token)
	}
	fmt.Fprintf(&b, "PER_PAGE=%d\n", cfg.PerPage)
	fmt.Fprintf(&b, "START_PAGE=%d\n", cfg.StartPage)
	fmt.Fprintf(&b, "LOADING=%s\n", cfg.Loading)
	fmt.Fprintf(&b, "SEARCH_BOX=%t\n", cfg.SearchBox)
	fmt.Fprintf(&b, "LOG_LEVEL=%s\n", cfg.LogLevel)
	if cfg.LogFile != "" {
		fmt.Fprintf(&b, "LOG_FILE=%s\n", cfg.LogFile)
	}
	fmt.Fprintf(&b, "PROBE_INTERVAL=%s\n", cfg.ProbeInterval)
	return b.String()
}

// Save validates cfg and writes it to path.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Encode(cfg)), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
