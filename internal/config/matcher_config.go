package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MatcherConfig drives the saved search matching scheduler.
type MatcherConfig struct {
	Cron       string        `mapstructure:"cron"`
	Timezone   string        `mapstructure:"timezone"`
	BatchSize  int           `mapstructure:"batch_size"`
	BatchDelay time.Duration `mapstructure:"batch_delay"`
	RunOnInit  bool          `mapstructure:"run_on_init"`
}

func (config MatcherConfig) validate() error {

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

func (config MatcherConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("matcher.cron", "MATCHER_CRON"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("matcher.timezone", "MATCHER_TIMEZONE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("matcher.batch_size", "MATCHER_BATCH_SIZE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("matcher.batch_delay", "MATCHER_BATCH_DELAY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("matcher.run_on_init", "MATCHER_RUN_ON_INIT"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
