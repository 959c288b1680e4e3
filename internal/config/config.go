package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	ierr "github.com/ordertally/ordertally/internal/errors"
	"github.com/ordertally/ordertally/internal/types"
)

type Configuration struct {
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
	Order   OrderConfig   `mapstructure:"order" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type OrderConfig struct {
	// DefaultCurrency is applied when a create request carries no currency
	DefaultCurrency string `mapstructure:"default_currency" validate:"required,len=3"`
	// MaxSaveAttempts bounds the read-transform-commit retry loop on version conflicts
	MaxSaveAttempts int `mapstructure:"max_save_attempts" validate:"required,min=1"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ordertally")

	v.SetEnvPrefix("ORDERTALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("order.default_currency", "usd")
	v.SetDefault("order.max_save_attempts", 3)

	// A missing config file is fine, defaults and env vars cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read config file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal config").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Config validation failed").
			Mark(ierr.ErrValidation)
	}

	return &cfg, nil
}

func (c Configuration) Validate() error {
	if !types.IsValidCurrency(c.Order.DefaultCurrency) {
		return ierr.NewError("unsupported default currency").
			WithHintf("Currency %s is not supported", c.Order.DefaultCurrency).
			Mark(ierr.ErrValidation)
	}
	return validator.New().Struct(c)
}

// GetDefaultConfig returns a configuration for tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: types.LogLevelInfo},
		Order: OrderConfig{
			DefaultCurrency: "usd",
			MaxSaveAttempts: 3,
		},
	}
}
