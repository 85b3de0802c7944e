package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Mail     MailConfig     `yaml:"mail"`

	JobsCacheTTL time.Duration `yaml:"jobs_cache_ttl"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres|mysql
	PostgresURI     string        `yaml:"postgres_uri"`
	MySQLDSN        string        `yaml:"mysql_dsn"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"` // host:port or redis:// URL; empty disables Redis
}

type AuthConfig struct {
	StudentSecret  string        `yaml:"student_secret"`
	AdminSecret    string        `yaml:"admin_secret"`
	Issuer         string        `yaml:"issuer"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	AdminEmail     string        `yaml:"admin_email"`
	AdminPassword  string        `yaml:"admin_password"`
	RateLimit      int           `yaml:"rate_limit"`
	RateWindow     time.Duration `yaml:"rate_window"`
}

type StorageConfig struct {
	Driver             string `yaml:"driver"` // local|gcs|s3
	UploadDir          string `yaml:"upload_dir"`
	GCSBucket          string `yaml:"gcs_bucket"`
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`
	S3Bucket           string `yaml:"s3_bucket"`
	S3Region           string `yaml:"s3_region"`
	S3Endpoint         string `yaml:"s3_endpoint"`
	S3AccessKey        string `yaml:"s3_access_key"`
	S3SecretKey        string `yaml:"s3_secret_key"`
}

type MailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
	FromName       string `yaml:"from_name"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		LogLevel:        "info",
		ShutdownTimeout: 15 * time.Second,
		Database: DatabaseConfig{
			Driver:          "postgres",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			AutoMigrate:     true,
		},
		Mongo: MongoConfig{Database: "placementcell"},
		Auth: AuthConfig{
			Issuer:         "placementcell",
			AccessTokenTTL: 24 * time.Hour,
			RateLimit:      20,
			RateWindow:     time.Minute,
		},
		Storage:      StorageConfig{Driver: "local", UploadDir: "uploads"},
		Mail:         MailConfig{FromName: "Placement Cell"},
		JobsCacheTTL: time.Minute,
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_PATH (if
// set), then lets environment variables override individual keys.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.PostgresURI, "POSTGRES_URI", "DATABASE_URL")
	setString(&c.Database.MySQLDSN, "MYSQL_DSN")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DB")
	setString(&c.Redis.Addr, "REDIS_ADDR", "REDIS_URI", "REDIS_URL")

	setString(&c.Auth.StudentSecret, "STUDENT_JWT_SECRET", "JWT_SECRET")
	setString(&c.Auth.AdminSecret, "ADMIN_JWT_SECRET", "JWT_SECRET")
	setString(&c.Auth.Issuer, "JWT_ISSUER")
	setString(&c.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&c.Auth.AdminPassword, "ADMIN_PASSWORD")

	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.UploadDir, "UPLOAD_DIR")
	setString(&c.Storage.GCSBucket, "GCS_BUCKET")
	setString(&c.Storage.GCSCredentialsFile, "GCS_CREDENTIALS_FILE")
	setString(&c.Storage.S3Bucket, "S3_BUCKET")
	setString(&c.Storage.S3Region, "S3_REGION")
	setString(&c.Storage.S3Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.S3AccessKey, "S3_ACCESS_KEY")
	setString(&c.Storage.S3SecretKey, "S3_SECRET_KEY")

	setString(&c.Mail.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.Mail.From, "MAIL_FROM")
	setString(&c.Mail.FromName, "MAIL_FROM_NAME")

	for _, d := range []struct {
		dst *time.Duration
		key string
	}{
		{&c.ShutdownTimeout, "SHUTDOWN_TIMEOUT"},
		{&c.Auth.AccessTokenTTL, "ACCESS_TOKEN_TTL"},
		{&c.Auth.RateWindow, "AUTH_RATE_WINDOW"},
		{&c.JobsCacheTTL, "JOBS_CACHE_TTL"},
	} {
		if err := setDuration(d.dst, d.key); err != nil {
			return err
		}
	}
	if err := setInt(&c.Auth.RateLimit, "AUTH_RATE_LIMIT"); err != nil {
		return err
	}
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_AUTO_MIGRATE: %w", err)
		}
		c.Database.AutoMigrate = b
	}
	return nil
}

func (c *Config) Validate() error {
	var missing []string
	switch c.Database.Driver {
	case "postgres":
		if c.Database.PostgresURI == "" {
			missing = append(missing, "POSTGRES_URI")
		}
	case "mysql":
		if c.Database.MySQLDSN == "" {
			missing = append(missing, "MYSQL_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Mongo.URI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.Auth.StudentSecret == "" {
		missing = append(missing, "STUDENT_JWT_SECRET")
	}
	if c.Auth.AdminSecret == "" {
		missing = append(missing, "ADMIN_JWT_SECRET")
	}
	switch c.Storage.Driver {
	case "local":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			missing = append(missing, "GCS_BUCKET")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func setString(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
