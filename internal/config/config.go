package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPathEnv = "CONFIG_FILE"

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"EVOLVE_HTTP_PORT"`
}

// DatabaseConfig holds postgres settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"EVOLVE_POSTGRES_DSN"`
}

// CacheConfig holds redis settings for the station listing cache.
// An empty Addr disables response caching entirely.
type CacheConfig struct {
	Addr          string `yaml:"addr" env:"EVOLVE_REDIS_ADDR"`
	Password      string `yaml:"password" env:"EVOLVE_REDIS_PASSWORD"`
	ListingTTLSec int    `yaml:"listingTTLSeconds" env:"EVOLVE_LISTING_CACHE_TTL"`
}

// AuthConfig holds JWT and password hashing settings.
type AuthConfig struct {
	Secret      string `yaml:"secret" env:"EVOLVE_JWT_SECRET"`
	TokenTTLSec int    `yaml:"tokenTTLSeconds" env:"EVOLVE_JWT_TTL"`
	BcryptCost  int    `yaml:"bcryptCost" env:"EVOLVE_BCRYPT_COST"`
}

// LookupConfig holds external station lookup (NREL) settings.
// An empty APIKey disables the external lookup; listings degrade to
// local records only.
type LookupConfig struct {
	APIKey     string `yaml:"apiKey" env:"NREL_API_KEY"`
	BaseURL    string `yaml:"baseURL" env:"NREL_BASE_URL"`
	TimeoutSec int    `yaml:"timeoutSeconds" env:"NREL_TIMEOUT"`
}

// GeocoderConfig holds forward-geocoding settings.
type GeocoderConfig struct {
	BaseURL    string `yaml:"baseURL" env:"GEOCODER_BASE_URL"`
	TimeoutSec int    `yaml:"timeoutSeconds" env:"GEOCODER_TIMEOUT"`
}

// Config defines the full application configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Debug    bool           `yaml:"debug" env:"EVOLVE_DEBUG"`
}

// Load reads configuration from an optional YAML file and environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "8080"},
		Cache: CacheConfig{
			ListingTTLSec: 900,
		},
		Auth: AuthConfig{
			TokenTTLSec: 3600,
		},
		Lookup: LookupConfig{
			BaseURL:    "https://developer.nrel.gov/api/alt-fuel-stations/v1",
			TimeoutSec: 5,
		},
		Geocoder: GeocoderConfig{
			BaseURL:    "https://nominatim.openstreetmap.org",
			TimeoutSec: 5,
		},
	}

	if err := loadInto(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ListingTTL returns the station listing cache TTL as a duration.
func (c *Config) ListingTTL() time.Duration {
	if c.Cache.ListingTTLSec <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Cache.ListingTTLSec) * time.Second
}

// TokenTTL returns the JWT lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLSec <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTLSec) * time.Second
}

// LookupTimeout returns the external lookup request timeout.
func (c *Config) LookupTimeout() time.Duration {
	if c.Lookup.TimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Lookup.TimeoutSec) * time.Second
}

// GeocoderTimeout returns the geocoding request timeout.
func (c *Config) GeocoderTimeout() time.Duration {
	if c.Geocoder.TimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Geocoder.TimeoutSec) * time.Second
}

// loadInto hydrates the struct pointer with values from a YAML config file
// (when CONFIG_FILE is set) and overrides them with environment variables.
// Nested structs are supported via automatic ENV key generation
// (PARENT_CHILD) or explicit `env:"CUSTOM_KEY"` struct tags.
func loadInto(target interface{}) error {
	if target == nil {
		return errors.New("config: target is nil")
	}

	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return errors.New("config: target must be pointer to struct")
	}

	if path := os.Getenv(defaultConfigPathEnv); path != "" {
		if err := loadFromFile(path, target); err != nil {
			return err
		}
	}

	return populateFromEnv(val.Elem(), "")
}

func loadFromFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}

	return nil
}

func populateFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		fieldType := t.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if fieldType.Anonymous {
			if err := populateFromEnv(fieldVal, prefix); err != nil {
				return err
			}
			continue
		}

		rawKey := fieldType.Tag.Get("env")
		if rawKey == "-" {
			continue
		}

		var envKey string
		if rawKey != "" {
			envKey = normalizeKey("", rawKey)
		} else {
			envKey = normalizeKey(prefix, fieldType.Name)
		}

		if fieldVal.Kind() == reflect.Struct {
			if err := populateFromEnv(fieldVal, envKey); err != nil {
				return err
			}
			continue
		}

		if val, ok := os.LookupEnv(envKey); ok {
			if err := assign(fieldVal, val); err != nil {
				return fmt.Errorf("config: parse %s: %w", envKey, err)
			}
		}
	}
	return nil
}

func normalizeKey(prefix, key string) string {
	key = strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

func assign(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type().String())
	}
	return nil
}
