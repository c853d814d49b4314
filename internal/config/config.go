// Package config loads and saves the daily-dose settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	FileName     = "config.yaml"
	EnvPrefix    = "DAILYDOSE"
	DefaultWidth = 100
)

var ErrInvalid = errors.New("invalid config")

const (
	FormatTable    = "table"
	FormatPlain    = "plain"
	FormatJSON     = "json"
	FormatTelegram = "telegram"
)

const (
	CorruptSkip = "skip"
	CorruptFail = "fail"
)

type Config struct {
	// Database is the SQLite file; relative paths are taken from the root.
	Database    string        `mapstructure:"database" yaml:"database"`
	CorruptRows string        `mapstructure:"corrupt_rows" yaml:"corrupt_rows"`
	Display     DisplayConfig `mapstructure:"display" yaml:"display"`
	List        ListConfig    `mapstructure:"list" yaml:"list"`
}

type DisplayConfig struct {
	IncludeID bool   `mapstructure:"include_id" yaml:"include_id"`
	Width     int    `mapstructure:"width" yaml:"width"`
	Format    string `mapstructure:"format" yaml:"format"` // table|plain|json|telegram
	ASCII     bool   `mapstructure:"ascii" yaml:"ascii"`
}

type ListConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"` // 0 = no limit
}

func Default() Config {
	return Config{
		Database:    "storage.db",
		CorruptRows: CorruptSkip,
		Display: DisplayConfig{
			Width:  DefaultWidth,
			Format: FormatTable,
		},
	}
}

// Path returns the config file location under root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// DatabasePath resolves Database against root.
func (c Config) DatabasePath(root string) string {
	db := strings.TrimSpace(c.Database)
	if db == "" {
		db = Default().Database
	}
	if filepath.IsAbs(db) || strings.HasPrefix(db, "~") {
		return db
	}
	return filepath.Join(root, db)
}

// Load reads <root>/config.yaml over the defaults. A missing file is not an
// error. DAILYDOSE_* environment variables override file values, e.g.
// DAILYDOSE_DISPLAY_WIDTH=120.
func Load(root string) (Config, bool, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// env lookups only happen for keys viper knows about
	v.SetDefault("database", cfg.Database)
	v.SetDefault("corrupt_rows", cfg.CorruptRows)
	v.SetDefault("display.include_id", cfg.Display.IncludeID)
	v.SetDefault("display.width", cfg.Display.Width)
	v.SetDefault("display.format", cfg.Display.Format)
	v.SetDefault("display.ascii", cfg.Display.ASCII)
	v.SetDefault("list.limit", cfg.List.Limit)

	path := Path(root)
	exists := false
	if _, err := os.Stat(path); err == nil {
		exists = true
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, exists, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, exists, fmt.Errorf("%w: decode %s: %v", ErrInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, exists, err
	}
	return cfg, exists, nil
}

func (c Config) Validate() error {
	switch c.Display.Format {
	case FormatTable, FormatPlain, FormatJSON, FormatTelegram:
	default:
		return fmt.Errorf("%w: display.format %q (want table|plain|json|telegram)", ErrInvalid, c.Display.Format)
	}
	if c.Display.Width < 20 {
		return fmt.Errorf("%w: display.width %d (want >= 20)", ErrInvalid, c.Display.Width)
	}
	if c.List.Limit < 0 {
		return fmt.Errorf("%w: list.limit %d (want >= 0)", ErrInvalid, c.List.Limit)
	}
	switch c.CorruptRows {
	case CorruptSkip, CorruptFail:
	default:
		return fmt.Errorf("%w: corrupt_rows %q (want skip|fail)", ErrInvalid, c.CorruptRows)
	}
	return nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"database",
		"corrupt_rows",
		"display.include_id",
		"display.width",
		"display.format",
		"display.ascii",
		"list.limit",
	}
}

// Set assigns one key from its textual value and validates the result.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	next := *c

	switch key {
	case "database":
		if value == "" {
			return fmt.Errorf("%w: database must not be empty", ErrInvalid)
		}
		next.Database = value
	case "corrupt_rows":
		next.CorruptRows = strings.ToLower(value)
	case "display.include_id":
		b, ok := parseBool(value)
		if !ok {
			return invalidValue(key, value)
		}
		next.Display.IncludeID = b
	case "display.width":
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalidValue(key, value)
		}
		next.Display.Width = n
	case "display.format":
		next.Display.Format = strings.ToLower(value)
	case "display.ascii":
		b, ok := parseBool(value)
		if !ok {
			return invalidValue(key, value)
		}
		next.Display.ASCII = b
	case "list.limit":
		switch strings.ToLower(value) {
		case "", "none", "null":
			next.List.Limit = 0
		default:
			n, err := strconv.Atoi(value)
			if err != nil {
				return invalidValue(key, value)
			}
			next.List.Limit = n
		}
	default:
		return fmt.Errorf("%w: unknown key %q (allowed: %s)", ErrInvalid, key, strings.Join(Keys(), ", "))
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Get returns the textual value of key.
func (c Config) Get(key string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "database":
		return c.Database, true
	case "corrupt_rows":
		return c.CorruptRows, true
	case "display.include_id":
		return strconv.FormatBool(c.Display.IncludeID), true
	case "display.width":
		return strconv.Itoa(c.Display.Width), true
	case "display.format":
		return c.Display.Format, true
	case "display.ascii":
		return strconv.FormatBool(c.Display.ASCII), true
	case "list.limit":
		return strconv.Itoa(c.List.Limit), true
	default:
		return "", false
	}
}

// Write saves cfg as YAML at path, replacing any existing file atomically.
func Write(path string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := []byte("# daily-dose settings\n")
	return atomicWriteFile(path, append(header, b...), 0o644)
}

// WriteDefault writes the default config unless a file already exists.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := Write(path, Default()); err != nil {
		return false, err
	}
	return true, nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

func invalidValue(key, value string) error {
	return fmt.Errorf("%w: value for %s: %q", ErrInvalid, key, value)
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", time.Now().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
