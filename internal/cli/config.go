package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/toyz/metagen/internal/generator"
)

// Config holds the settings of a metagen run, read from metagen.yaml,
// METAGEN_* environment variables and command flags
type Config struct {
	// OutputDir receives one package directory per module
	OutputDir string `mapstructure:"output_dir"`

	// RuntimePackage is the import path of the runtime the generated code uses
	RuntimePackage string `mapstructure:"runtime_package"`

	// ModulePath is the import path of OutputDir. Modules declared with an
	// empty path live under it. If empty, it is derived from the nearest go.mod.
	ModulePath string `mapstructure:"module_path"`

	LogLevel string `mapstructure:"log_level"`

	// Parallel bounds how many modules generate at once, 0 means unbounded
	Parallel int `mapstructure:"parallel"`

	// Format runs generated source through the Go formatter
	Format bool `mapstructure:"format"`
}

// NewViper creates a viper instance with metagen defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("output_dir", "gen")
	v.SetDefault("runtime_package", generator.DefaultRuntimePackage)
	v.SetDefault("module_path", "")
	v.SetDefault("log_level", "off")
	v.SetDefault("parallel", 0)
	v.SetDefault("format", true)

	v.SetEnvPrefix("METAGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the config file at path, or metagen.yaml in the working
// directory when path is empty. A missing default file is not an error.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("metagen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the settings
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel must be zero or positive, got %d", c.Parallel)
	}
	return nil
}

// GeneratorConfig converts the settings into a dispatcher configuration
func (c *Config) GeneratorConfig() generator.Config {
	return generator.Config{
		OutputDir:      c.OutputDir,
		RuntimePackage: c.RuntimePackage,
		Format:         c.Format,
		Parallel:       c.Parallel,
	}
}
