package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ConfigOptions holds configuration loading options
type ConfigOptions struct {
	ConfigPath  string
	ConfigName  string
	ConfigType  string
	EnvPrefix   string
	DefaultsMap map[string]interface{}
	// RequireFile makes a missing config file an error.
	RequireFile bool
}

// NewViperConfigWithOptions creates a Viper configuration with custom options.
// Environment variables override file values, which override defaults.
func NewViperConfigWithOptions(opts ConfigOptions) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigType(opts.ConfigType)

	configPaths := []string{opts.ConfigPath}
	if opts.ConfigPath != "./config" {
		configPaths = append(configPaths, "./config")
	}
	configPaths = append(configPaths, "/etc/a11yowl", "$HOME/.a11yowl")

	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	v.SetConfigName(opts.ConfigName)

	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	}

	for key, value := range opts.DefaultsMap {
		v.SetDefault(key, value)
	}

	log.Debugf("Searching for config file: %s in paths: %v", opts.ConfigName, configPaths)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if opts.RequireFile {
				return nil, fmt.Errorf("config file '%s' not found in paths: %v", opts.ConfigName, configPaths)
			}
			log.Debugf("No config file found, using defaults and environment")
			return v, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Infof("Loaded config file: %s", v.ConfigFileUsed())
	return v, nil
}

// GetConfigPath returns the path where config files are expected to be found
func GetConfigPath() string {
	if path := os.Getenv("A11YOWL_CONFIG_PATH"); path != "" {
		return path
	}
	return "./config"
}
