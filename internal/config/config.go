package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info" env:"LOG_LEVEL"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend" default:"file" env:"DRAFT_STORAGE_BACKEND"`
	Key         string `yaml:"key" default:"kimchi-post-draft" env:"DRAFT_STORAGE_KEY"`
	Format      string `yaml:"format" default:"json" env:"DRAFT_STORAGE_FORMAT"`
	Compress    bool   `yaml:"compress" default:"false" env:"DRAFT_STORAGE_COMPRESS"`
	Compression string `yaml:"compression" default:"zstd" env:"DRAFT_STORAGE_COMPRESSION"`
	Dir         string `yaml:"dir" default:".kimchi" env:"DRAFT_STORAGE_DIR"`
	ClientID    string `yaml:"client_id" default:"" env:"DRAFT_CLIENT_ID"`
	// Strict makes an undecodable stored draft an error instead of an empty store.
	Strict bool `yaml:"strict" default:"false" env:"DRAFT_STORAGE_STRICT"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" default:"" env:"DATABASE_URL"`
	// Serverless selects the pooler-friendly adapter: no prepared statements, one connection.
	Serverless bool   `yaml:"serverless" default:"false" env:"DATABASE_SERVERLESS"`
	SQLitePath string `yaml:"sqlite_path" default:"./database.db" env:"SQLITE_PATH"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" default:"localhost:6379" env:"REDIS_ADDR"`
	Password string        `yaml:"password" default:"" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" default:"0" env:"REDIS_DB"`
	TTL      time.Duration `yaml:"ttl" default:"0s" env:"REDIS_TTL"`
}

type S3Config struct {
	Endpoint        string `yaml:"endpoint" default:"" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" default:"auto" env:"S3_REGION"`
	Bucket          string `yaml:"bucket" default:"kimchi-drafts" env:"S3_BUCKET"`
	Prefix          string `yaml:"prefix" default:"drafts/" env:"S3_PREFIX"`
	AccessKeyID     string `yaml:"access_key_id" default:"" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" default:"" env:"S3_SECRET_ACCESS_KEY"`
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendGorm   = "gorm"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

const (
	CompressionZstd = "zstd"
	CompressionGzip = "gzip"
)

var backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendGorm, BackendRedis, BackendS3}

func Backends() []string {
	return append([]string(nil), backends...)
}

// Shared reports whether the backend may hold records of several clients.
func (c StorageConfig) Shared() bool {
	switch c.Backend {
	case BackendGorm, BackendRedis, BackendS3:
		return true
	}
	return false
}

// ScopedKey is the record key, suffixed with the client id when one is set.
func (c StorageConfig) ScopedKey() string {
	if c.ClientID == "" {
		return c.Key
	}
	return c.Key + ":" + c.ClientID
}

func (c *Config) Validate() error {
	var errs []error

	known := false
	for _, b := range backends {
		if c.Storage.Backend == b {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("unknown storage backend %q (expected one of %s)",
			c.Storage.Backend, strings.Join(backends, ", ")))
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage key must not be empty"))
	}

	if c.Storage.Compress && c.Storage.Compression != CompressionZstd && c.Storage.Compression != CompressionGzip {
		errs = append(errs, fmt.Errorf("unknown compression %q", c.Storage.Compression))
	}

	if c.Storage.Backend == BackendGorm && c.Database.URL == "" {
		errs = append(errs, errors.New("gorm backend requires database.url (DATABASE_URL)"))
	}

	if c.Storage.Backend == BackendS3 && c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3 backend requires s3.bucket"))
	}

	return errors.Join(errs...)
}

// Load reads the YAML file at path on top of the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Int64:
			if field.Type() == reflect.TypeOf(time.Duration(0)) {
				if val, err := time.ParseDuration(defaultValue); err == nil {
					field.SetInt(int64(val))
				}
			} else if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
