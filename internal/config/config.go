package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/config"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/focusflow/internal/constants"
	"github.com/julianstephens/focusflow/internal/utils"
)

type Config struct {
	Storage       StorageConfig      `yaml:"storage"`
	Log           LogConfig          `yaml:"log"`
	Timezone      string             `yaml:"timezone"`
	Notifications NotificationConfig `yaml:"notifications"`
	Reminders     ReminderConfig     `yaml:"reminders"`

	// Dir is the directory the config was loaded from. It is not read from YAML.
	Dir string `yaml:"-"`
}

type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

type NotificationConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ReminderConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when dir has no config file.
func Default(dir string) Config {
	return Config{
		Storage:       StorageConfig{DSN: filepath.Join(dir, constants.DefaultDBFileName)},
		Timezone:      constants.DefaultTimezone,
		Notifications: NotificationConfig{Enabled: constants.DefaultNotificationsEnabled},
		Reminders:     ReminderConfig{Enabled: constants.DefaultRemindersEnabled},
		Dir:           dir,
	}
}

// ResolveDir returns the config directory: FOCUSFLOW_CONFIG_DIR when set,
// otherwise dir, with a leading ~ expanded.
func ResolveDir(dir string) (string, error) {
	if env := os.Getenv(constants.EnvConfigDir); env != "" {
		dir = env
	}
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	return ExpandHome(dir)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Load reads <dir>/config.yaml layered over the defaults. Variables from
// <dir>/.env are added to the environment first (existing variables win),
// ${VAR:default} references in the file are expanded, and FOCUSFLOW_*
// variables override the result.
func Load(dir string) (*Config, error) {
	envPath := filepath.Join(dir, constants.EnvFileName)
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	defaults := Default(dir)
	opts := []config.YAMLOption{
		config.Static(defaults),
		config.Expand(os.LookupEnv),
	}

	path := filepath.Join(dir, constants.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		opts = append(opts, config.File(path))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}
	cfg.Dir = dir

	cfg.overrideFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables if present
func (c *Config) overrideFromEnv() {
	if val := os.Getenv(constants.EnvDBConnection); val != "" {
		c.Storage.DSN = val
	}
	if val := os.Getenv(constants.EnvTimezone); val != "" {
		c.Timezone = val
	}
	if val := os.Getenv(constants.EnvDebug); val != "" {
		if debug, err := strconv.ParseBool(val); err == nil {
			c.Log.Debug = debug
		}
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("%s must not be empty", constants.ConfigStorageDSN)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid %s %q", constants.ConfigTimezone, c.Timezone)
	}
	return nil
}

// Save writes c to <c.Dir>/config.yaml, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(c.Dir, constants.ConfigFileName), data, 0600)
}

// Path returns the location of the config file.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, constants.ConfigFileName)
}
