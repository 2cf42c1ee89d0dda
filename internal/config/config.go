package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	RemoteDriverMySQL    = "mysql"
	RemoteDriverSupabase = "supabase"

	OfflineDriverSQLite = "sqlite"
	OfflineDriverFile   = "file"
	OfflineDriverMemory = "memory"
)

type Config struct {
	Remote       RemoteConfig       `mapstructure:"remote"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Supabase     SupabaseConfig     `mapstructure:"supabase"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Offline      OfflineConfig      `mapstructure:"offline"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
}

type RemoteConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=mysql supabase"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type SupabaseConfig struct {
	URL    string `mapstructure:"url" validate:"omitempty,url"`
	APIKey string `mapstructure:"api_key"`
}

type GeminiConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model" validate:"required"`
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts"`
	Timeout          time.Duration `mapstructure:"timeout"`
	ResponseLanguage string        `mapstructure:"response_language"`
}

type OfflineConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite file memory"`
	// Path is the SQLite database file for the sqlite driver, and the directory for the file driver.
	Path string `mapstructure:"path" validate:"required_unless=Driver memory"`
}

type ConnectivityConfig struct {
	ProbeAddress string        `mapstructure:"probe_address" validate:"required,hostname_port"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wordlog")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("remote.driver", RemoteDriverMySQL)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "wordlog")
	v.SetDefault("database.username", "user")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.max_retry_attempts", 0)
	v.SetDefault("gemini.response_language", "Japanese")
	v.SetDefault("offline.driver", OfflineDriverSQLite)
	v.SetDefault("offline.path", filepath.Join("data", "offline.db"))
	v.SetDefault("connectivity.probe_address", "generativelanguage.googleapis.com:443")
	v.SetDefault("connectivity.timeout", 3*time.Second)

	// Bind Gemini config to environment variables only (not from config file)
	if err := v.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("gemini.model", "GEMINI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_MODEL environment variable: %w", err)
	}

	// Bind Supabase config to environment variables
	if err := v.BindEnv("supabase.url", "SUPABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind SUPABASE_URL environment variable: %w", err)
	}
	if err := v.BindEnv("supabase.api_key", "SUPABASE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind SUPABASE_API_KEY environment variable: %w", err)
	}

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
