package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreSQLite = "sqlite"
	StoreYAML   = "yaml"
)

// Client holds the settings of the pomodoro command line client.
type Client struct {
	APIURL         string        `mapstructure:"api_url"`
	Store          string        `mapstructure:"store"`
	StatePath      string        `mapstructure:"state_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DefaultClient returns the client defaults rooted at home.
func DefaultClient(home string) Client {
	return Client{
		APIURL:         "http://localhost:5000",
		Store:          StoreSQLite,
		StatePath:      filepath.Join(home, ".pomodoro", "state.db"),
		RequestTimeout: 10 * time.Second,
	}
}

// ClientConfigPath is where LoadClient looks for a config file when none is
// given explicitly.
func ClientConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pomodoro", "config.yaml")
}

// LoadClient reads path (if it exists) and POMODORO_* environment overrides
// on top of the defaults.
func LoadClient(path string) (Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaults := DefaultClient(home)

	v := viper.New()
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("store", defaults.Store)
	v.SetDefault("state_path", defaults.StatePath)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetEnvPrefix("pomodoro")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = ClientConfigPath()
	}
	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return defaults, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults, fmt.Errorf("decode config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	switch cfg.Store {
	case StoreSQLite, StoreYAML:
	default:
		return defaults, fmt.Errorf("unknown store %q (want %s or %s)", cfg.Store, StoreSQLite, StoreYAML)
	}
	return cfg, nil
}
