package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SMTPConfig describes the outbound mail transport.
type SMTPConfig struct {
	Host                 string  `mapstructure:"host"`
	Port                 int     `mapstructure:"port"`
	Username             string  `mapstructure:"username"`
	Password             string  `mapstructure:"password"`
	From                 string  `mapstructure:"from"`
	BaseURL              string  `mapstructure:"base_url"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
}

func (config SMTPConfig) validate() error {

	var missingFields []string

	if config.Host == "" {
		missingFields = append(missingFields, "host")
	}

	if config.From == "" {
		missingFields = append(missingFields, "from")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config SMTPConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("smtp.host", "SMTP_HOST"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("smtp.port", "SMTP_PORT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("smtp.username", "SMTP_USERNAME"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("smtp.password", "SMTP_PASSWORD"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("smtp.from", "SMTP_FROM"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("smtp.base_url", "FRONTEND_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("smtp.max_requests_per_second", "SMTP_MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
