package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DeliveryConfig drives the notification delivery scheduler.
type DeliveryConfig struct {
	Cron      string        `mapstructure:"cron"`
	Timezone  string        `mapstructure:"timezone"`
	BatchSize int           `mapstructure:"batch_size"`
	SendDelay time.Duration `mapstructure:"send_delay"`
	RunOnInit bool          `mapstructure:"run_on_init"`
}

func (config DeliveryConfig) validate() error {

	var missingFields []string

	if config.Cron == "" {
		missingFields = append(missingFields, "cron")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative")
	}

	return nil
}

func (config DeliveryConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("delivery.cron", "DELIVERY_CRON"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("delivery.timezone", "DELIVERY_TIMEZONE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("delivery.batch_size", "DELIVERY_BATCH_SIZE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("delivery.send_delay", "DELIVERY_SEND_DELAY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("delivery.run_on_init", "DELIVERY_RUN_ON_INIT"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
