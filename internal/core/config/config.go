package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// LogFile is an optional path for a rotated log file. Empty disables file logging.
	LogFile string `mapstructure:"LOG_FILE"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the persistence store configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// DHL holds the DHL Unified Tracking API configuration.
	DHL DHLConfig `mapstructure:",squash"`

	// Tracking holds polling behaviour settings.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Gemini holds the AI summary configuration.
	Gemini GeminiConfig `mapstructure:",squash"`
}

// RedisConfig holds the connection details for the Redis store.
type RedisConfig struct {
	// URL is the Redis connection string, e.g. redis://localhost:6379/0.
	URL string `mapstructure:"REDIS_URL" required:"true"`
}

// DHLConfig holds the credentials for the DHL Unified Tracking API.
type DHLConfig struct {
	// URL is the base URL of the tracking endpoint.
	URL string `mapstructure:"DHL_API_URL" default:"https://api-eu.dhl.com/track/shipments"`
	// APIKey is sent as the DHL-API-Key header. Required unless the demo provider is used.
	APIKey string `mapstructure:"DHL_API_KEY"`
}

// TrackingConfig holds polling behaviour settings.
type TrackingConfig struct {
	// Provider selects the tracking backend: "dhl" or "demo".
	Provider string `mapstructure:"TRACKING_PROVIDER" default:"dhl"`
	// DelayMS is the fixed gap between successive outbound tracking requests.
	// Kept around a second to stay under the provider's rate limit.
	DelayMS int `mapstructure:"TRACKING_DELAY_MS" default:"1200"`
	// AutoRefreshCron is an optional cron expression for periodic refresh-all
	// runs (e.g. "0 */2 * * *"). Empty disables the scheduler.
	AutoRefreshCron string `mapstructure:"AUTO_REFRESH_CRON"`
}

// GeminiConfig holds the AI summary settings.
type GeminiConfig struct {
	// APIKey enables the Gemini-backed summary when set. Empty falls back to
	// the templated summary.
	APIKey string `mapstructure:"GEMINI_API_KEY"`
	// Model is the Gemini model used for shipment summaries.
	Model string `mapstructure:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.Tracking.Provider == "dhl" && config.DHL.APIKey == "" {
		return nil, fmt.Errorf("missing required configuration: DHL_API_KEY (set TRACKING_PROVIDER=demo to run without it)")
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
