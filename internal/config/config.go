package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Ingestion
	KeyColumn          string `mapstructure:"key_column" yaml:"key_column"`
	SheetName          string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex         int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`

	// Reports
	TopN         int    `mapstructure:"top_n" yaml:"top_n"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	MaxTableRows int    `mapstructure:"max_table_rows" yaml:"max_table_rows"`

	// Narration
	NarrateProvider        string  `mapstructure:"narrate_provider" yaml:"narrate_provider"`
	NarrateModel           string  `mapstructure:"narrate_model" yaml:"narrate_model"`
	NarrateTemperature     float64 `mapstructure:"narrate_temperature" yaml:"narrate_temperature"`
	NarrateMaxPromptTokens int     `mapstructure:"narrate_max_prompt_tokens" yaml:"narrate_max_prompt_tokens"`

	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`

	// Retry configuration
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"key_column", "sheet_name", "sheet_index", "decimal_separator", "thousands_separator",
	"top_n", "output_format", "max_table_rows",
	"narrate_provider", "narrate_model", "narrate_temperature", "narrate_max_prompt_tokens",
	"ollama_host", "ollama_timeout_sec",
	"retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms",
	"log_level",
}

// DefaultDir returns ~/.labvolume.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".labvolume"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.labvolume/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
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

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing config file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("LABVOLUME")
	v.AutomaticEnv()

	v.SetDefault("key_column", "LABORATORIO")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("top_n", 5)
	v.SetDefault("output_format", "md")
	v.SetDefault("max_table_rows", 0)
	v.SetDefault("narrate_provider", "ollama")
	v.SetDefault("narrate_model", "qwen2.5:3b")
	v.SetDefault("narrate_temperature", 0.2)
	v.SetDefault("narrate_max_prompt_tokens", 3000)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 120)
	v.SetDefault("retry_max_attempts", 2)
	v.SetDefault("retry_base_delay_ms", 200)
	v.SetDefault("retry_max_delay_ms", 1000)
	v.SetDefault("log_level", "warn")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
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
	return &c, nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "key_column":
		return c.KeyColumn, nil
	case "sheet_name":
		return c.SheetName, nil
	case "sheet_index":
		return strconv.Itoa(c.SheetIndex), nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "thousands_separator":
		return c.ThousandsSeparator, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "output_format":
		return c.OutputFormat, nil
	case "max_table_rows":
		return strconv.Itoa(c.MaxTableRows), nil
	case "narrate_provider":
		return c.NarrateProvider, nil
	case "narrate_model":
		return c.NarrateModel, nil
	case "narrate_temperature":
		return strconv.FormatFloat(c.NarrateTemperature, 'f', 3, 64), nil
	case "narrate_max_prompt_tokens":
		return strconv.Itoa(c.NarrateMaxPromptTokens), nil
	case "ollama_host":
		return c.OllamaHost, nil
	case "ollama_timeout_sec":
		return strconv.Itoa(c.OllamaTimeoutSec), nil
	case "retry_max_attempts":
		return strconv.Itoa(c.RetryMaxAttempts), nil
	case "retry_base_delay_ms":
		return strconv.Itoa(c.RetryBaseDelayMs), nil
	case "retry_max_delay_ms":
		return strconv.Itoa(c.RetryMaxDelayMs), nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Set validates and assigns one key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "key_column":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("key_column cannot be empty")
		}
		c.KeyColumn = strings.TrimSpace(val)
	case "sheet_name":
		c.SheetName = val
	case "decimal_separator", "thousands_separator":
		if _, err := Separator(val); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if key == "decimal_separator" {
			c.DecimalSeparator = val
		} else {
			c.ThousandsSeparator = val
		}
	case "output_format":
		f := strings.ToLower(val)
		if f != "md" && f != "json" {
			return fmt.Errorf("invalid output_format: %s (use md or json)", val)
		}
		c.OutputFormat = f
	case "narrate_provider":
		switch strings.ToLower(val) {
		case "ollama", "local":
			c.NarrateProvider = "ollama"
		default:
			return fmt.Errorf("invalid narrate_provider: %s (use ollama)", val)
		}
	case "narrate_model":
		c.NarrateModel = val
	case "narrate_temperature":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid float for narrate_temperature: %v", val)
		}
		c.NarrateTemperature = f
	case "ollama_host":
		c.OllamaHost = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	default:
		p, ok := c.intField(key)
		if !ok {
			return fmt.Errorf("unknown key: %s", key)
		}
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		*p = i
	}
	return nil
}

func (c *Global) intField(key string) (*int, bool) {
	switch key {
	case "sheet_index":
		return &c.SheetIndex, true
	case "top_n":
		return &c.TopN, true
	case "max_table_rows":
		return &c.MaxTableRows, true
	case "narrate_max_prompt_tokens":
		return &c.NarrateMaxPromptTokens, true
	case "ollama_timeout_sec":
		return &c.OllamaTimeoutSec, true
	case "retry_max_attempts":
		return &c.RetryMaxAttempts, true
	case "retry_base_delay_ms":
		return &c.RetryBaseDelayMs, true
	case "retry_max_delay_ms":
		return &c.RetryMaxDelayMs, true
	}
	return nil, false
}

// Separator converts a configured separator to a rune. "" means auto-detect
// and yields 0; "space" and "tab" name whitespace separators.
func Separator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "space":
		return ' ', nil
	case "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	return r[0], nil
}
