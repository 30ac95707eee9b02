package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ClientConfig is what farmctl needs to reach the API.
type ClientConfig struct {
	Server  string `mapstructure:"server"`
	Token   string `mapstructure:"token"`
	PerPage int    `mapstructure:"per_page"`
}

// DefaultClientPath is ~/.farmctl.yaml.
func DefaultClientPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".farmctl.yaml"
	}
	return filepath.Join(home, ".farmctl.yaml")
}

// NewClientViper builds the viper instance farmctl binds its flags to.
// FARMCTL_SERVER and FARMCTL_TOKEN override the file.
func NewClientViper(path string) *viper.Viper {
	v := viper.New()
	v.SetDefault("server", "http://localhost:8080/api/v1")
	v.SetDefault("token", "")
	v.SetDefault("per_page", 1000)
	v.SetEnvPrefix("FARMCTL")
	v.AutomaticEnv()
	if path == "" {
		path = DefaultClientPath()
	}
	v.SetConfigFile(path)
	return v
}

// LoadClient reads the config file if present and unmarshals the merged view.
func LoadClient(v *viper.Viper) (*ClientConfig, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode client config: %w", err)
	}
	if cfg.Server == "" {
		return nil, errors.New("server URL is empty")
	}
	return cfg, nil
}

// SaveToken persists the token to the config file.
func SaveToken(v *viper.Viper, token string) error {
	v.Set("token", token)
	if err := v.WriteConfigAs(v.ConfigFileUsed()); err != nil {
		return fmt.Errorf("write %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}
