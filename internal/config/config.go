package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir     string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	ChartWidth    int    `mapstructure:"chart_width" yaml:"chart_width" validate:"min=200,max=4000"`
	ChartHeight   int    `mapstructure:"chart_height" yaml:"chart_height" validate:"min=150,max=4000"`
	SampleRows    int    `mapstructure:"sample_rows" yaml:"sample_rows" validate:"min=0,max=100"`
	RenderWorkers int    `mapstructure:"render_workers" yaml:"render_workers" validate:"min=1,max=32"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// Input parsing; empty means sniff from the file extension
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"delimiter"`
}

// Keys lists every settable key in display order.
var Keys = []string{"output_dir", "chart_width", "chart_height", "sample_rows", "render_workers", "log_level", "log_format", "delimiter"}

// EnvPrefix prefixes every environment override, e.g. LISTENLENS_CHART_WIDTH.
const EnvPrefix = "LISTENLENS"

// Default returns the built-in configuration.
func Default() Global {
	return Global{
		OutputDir:     "charts",
		ChartWidth:    800,
		ChartHeight:   400,
		SampleRows:    5,
		RenderWorkers: 4,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// DefaultPath returns ~/.listenlens/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".listenlens", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.listenlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from .env, environment, config file and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("chart_width", d.ChartWidth)
	v.SetDefault("chart_height", d.ChartHeight)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("render_workers", d.RenderWorkers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("delimiter", d.Delimiter)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		_, err := ParseDelimiter(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Get returns the value of key formatted for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "output_dir":
		return c.OutputDir, nil
	case "chart_width":
		return strconv.Itoa(c.ChartWidth), nil
	case "chart_height":
		return strconv.Itoa(c.ChartHeight), nil
	case "sample_rows":
		return strconv.Itoa(c.SampleRows), nil
	case "render_workers":
		return strconv.Itoa(c.RenderWorkers), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "delimiter":
		return c.Delimiter, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val into key and re-validates the whole configuration.
func (c *Global) Set(key, val string) error {
	next := *c
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "output_dir":
		next.OutputDir = val
	case "chart_width":
		next.ChartWidth, err = atoi()
	case "chart_height":
		next.ChartHeight, err = atoi()
	case "sample_rows":
		next.SampleRows, err = atoi()
	case "render_workers":
		next.RenderWorkers, err = atoi()
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	case "delimiter":
		next.Delimiter = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ParseDelimiter maps a configured delimiter to a rune. Empty means auto-detect and
// yields 0; "tab" and "\t" mean a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case ",", ";", "|":
		return rune(s[0]), nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q (use , ; | or tab)", s)
}
