package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/absence"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/output"
)

// Config represents application configuration
type Config struct {
	Input       InputConfig       `mapstructure:"input"`
	Consolidate ConsolidateConfig `mapstructure:"consolidate"`
	Output      OutputConfig      `mapstructure:"output"`
	Log         LogConfig         `mapstructure:"log"`
	Server      ServerConfig      `mapstructure:"server"`
}

// InputConfig represents workbook reading options
type InputConfig struct {
	DefaultYear int    `mapstructure:"default_year"` // Year for sheets named without one
	XLSCharset  string `mapstructure:"xls_charset"`
}

// ConsolidateConfig represents consolidation options
type ConsolidateConfig struct {
	Duplicates string `mapstructure:"duplicates"` // "absorb" or "split"
}

// OutputConfig represents CSV export options
type OutputConfig struct {
	Dir       string `mapstructure:"dir"`
	Delimiter string `mapstructure:"delimiter"`
	BOM       bool   `mapstructure:"bom"`
}

// LogConfig represents logging options
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // Empty logs to stderr
}

// ServerConfig represents HTTP server options
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.default_year", 2026)
	v.SetDefault("input.xls_charset", "utf-8")
	v.SetDefault("consolidate.duplicates", string(absence.DuplicatesAbsorb))
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.delimiter", ",")
	v.SetDefault("output.bom", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 20)
}

// Load loads configuration from file. A missing default config file is not
// an error; an explicitly named one must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("urlaubsplan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.urlaubsplan")
	}

	// Read environment variables
	v.SetEnvPrefix("URLAUBSPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Input.DefaultYear < 2000 || c.Input.DefaultYear > 2099 {
		return fmt.Errorf("input.default_year must be between 2000 and 2099, got %d", c.Input.DefaultYear)
	}
	if _, err := absence.ParseDuplicateMode(c.Consolidate.Duplicates); err != nil {
		return fmt.Errorf("consolidate.duplicates: %w", err)
	}
	if utf8.RuneCountInString(c.Output.Delimiter) != 1 {
		return fmt.Errorf("output.delimiter must be a single character, got %q", c.Output.Delimiter)
	}
	if d, _ := utf8.DecodeRuneInString(c.Output.Delimiter); d == '"' || d == '\r' || d == '\n' {
		return fmt.Errorf("output.delimiter %q is not allowed", c.Output.Delimiter)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	return nil
}

// TransformOptions returns the roster options described by the config.
func (c *Config) TransformOptions() roster.Options {
	mode, err := absence.ParseDuplicateMode(c.Consolidate.Duplicates)
	if err != nil {
		mode = absence.DuplicatesAbsorb
	}
	return roster.Options{
		DefaultYear: c.Input.DefaultYear,
		Duplicates:  mode,
		XLSCharset:  c.Input.XLSCharset,
	}
}

// CSVOptions returns the export options described by the config.
func (c *OutputConfig) CSVOptions() output.CSVOptions {
	opts := output.CSVOptions{Delimiter: ',', BOM: c.BOM}
	if d, size := utf8.DecodeRuneInString(c.Delimiter); size > 0 && d != utf8.RuneError {
		opts.Delimiter = d
	}
	return opts
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
