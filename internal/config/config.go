// Package config resolves coach settings from defaults, ~/.coach/config.toml,
// a .env file and COACH_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "COACH"

	APIURLKey        = "api.url"
	StorageDriverKey = "storage.driver"
	StoragePathKey   = "storage.path"
	RemoteTimeoutKey = "remote.timeout"

	DriverTOML   = "toml"
	DriverSQLite = "sqlite"

	DefaultAPIURL = "http://127.0.0.1:8000"

	configDir  = ".coach"
	configName = "config"
	configType = "toml"
)

type Config struct {
	APIURL        string
	StorageDriver string
	StoragePath   string
	RemoteTimeout time.Duration

	// Viper is the resolved settings tree, handed to adapters that read
	// their own keys.
	Viper *viper.Viper
}

// Load reads configuration for a user whose home directory is homeDir.
// envFiles are loaded with godotenv when they exist; variables already set in
// the environment win.
func Load(homeDir string, envFiles ...string) (*Config, error) {
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Join(homeDir, configDir))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(APIURLKey, DefaultAPIURL)
	v.SetDefault(StorageDriverKey, DriverTOML)
	v.SetDefault(RemoteTimeoutKey, time.Duration(0))

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString(StorageDriverKey)))
	v.SetDefault(StoragePathKey, filepath.Join(homeDir, configDir, defaultStateFile(driver)))

	cfg := &Config{
		APIURL:        strings.TrimSpace(v.GetString(APIURLKey)),
		StorageDriver: driver,
		StoragePath:   v.GetString(StoragePathKey),
		RemoteTimeout: v.GetDuration(RemoteTimeoutKey),
		Viper:         v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	parsed, err := url.Parse(c.APIURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an http(s) url, got %q", APIURLKey, c.APIURL)
	}
	switch c.StorageDriver {
	case DriverTOML, DriverSQLite:
	default:
		return fmt.Errorf("unsupported %s %q", StorageDriverKey, c.StorageDriver)
	}
	if strings.TrimSpace(c.StoragePath) == "" {
		return fmt.Errorf("%s cannot be empty", StoragePathKey)
	}
	if c.RemoteTimeout < 0 {
		return fmt.Errorf("%s cannot be negative", RemoteTimeoutKey)
	}

	return nil
}

func defaultStateFile(driver string) string {
	if driver == DriverSQLite {
		return "state.db"
	}
	return "state.toml"
}
