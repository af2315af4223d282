package config

import (
	"errors"
	"strings"

	"github.com/billhive/billhive/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Logging LoggingConfig `validate:"required"`
	Billing BillingConfig `validate:"required"`
	Cache   CacheConfig
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// BillingConfig carries the last-resort defaults used when neither the
// business profile nor the account supplies a value.
type BillingConfig struct {
	DefaultTimezone      string `mapstructure:"default_timezone" validate:"required"`
	DefaultInvoicePrefix string `mapstructure:"default_invoice_prefix" validate:"required"`
	DefaultDueDays       int    `mapstructure:"default_due_days" validate:"gte=0"`
}

type CacheConfig struct {
	Enabled bool
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/billhive")

	v.SetEnvPrefix("BILLHIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("billing.default_timezone", types.DefaultTimezone)
	v.SetDefault("billing.default_invoice_prefix", types.DefaultInvoicePrefix)
	v.SetDefault("billing.default_due_days", types.DefaultDueDays)
	v.SetDefault("cache.enabled", true)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a configuration suitable for tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: types.LogLevelInfo},
		Billing: BillingConfig{
			DefaultTimezone:      types.DefaultTimezone,
			DefaultInvoicePrefix: types.DefaultInvoicePrefix,
			DefaultDueDays:       types.DefaultDueDays,
		},
		Cache: CacheConfig{Enabled: false},
	}
}
