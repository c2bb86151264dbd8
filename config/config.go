package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration. Values come from an optional
// YAML file first, then the environment (and .env) overrides them.
type Config struct {
	Server struct {
		Port    string `yaml:"port"`
		LogMode string `yaml:"log_mode"`
	} `yaml:"server"`

	Store struct {
		Driver     string `yaml:"driver"` // csv | sqlite | postgres
		DataFile   string `yaml:"data_file"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`

	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Port     string `yaml:"port"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret    string `yaml:"jwt_secret"`
		PasswordHash string `yaml:"password_hash"`
	} `yaml:"auth"`

	S3 struct {
		Bucket        string `yaml:"bucket"`
		Region        string `yaml:"region"`
		Prefix        string `yaml:"prefix"`
		CloudFrontURL string `yaml:"cloudfront_url"`
	} `yaml:"s3"`
}

// Load reads .env (if present), the YAML file named by CONFIG_FILE (if
// set), then environment variables, and fills defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	setDefaults(cfg)

	switch cfg.Store.Driver {
	case DriverCSV, DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

func override(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func applyEnv(cfg *Config) {
	override(&cfg.Server.Port, "PORT")
	override(&cfg.Server.LogMode, "LOG_MODE")

	override(&cfg.Store.Driver, "STORE_DRIVER")
	override(&cfg.Store.DataFile, "DATA_FILE")
	override(&cfg.Store.SQLitePath, "SQLITE_PATH")

	override(&cfg.Database.Host, "DB_HOST")
	override(&cfg.Database.User, "DB_USER")
	override(&cfg.Database.Password, "DB_PASSWORD")
	override(&cfg.Database.Name, "DB_NAME")
	override(&cfg.Database.Port, "DB_PORT")

	override(&cfg.Auth.JWTSecret, "JWT_SECRET")
	override(&cfg.Auth.PasswordHash, "APP_PASSWORD_HASH")

	override(&cfg.S3.Bucket, "S3_BUCKET")
	override(&cfg.S3.Region, "AWS_REGION") // fallback
	override(&cfg.S3.Region, "S3_REGION")
	override(&cfg.S3.Prefix, "S3_PREFIX")
	override(&cfg.S3.CloudFrontURL, "CLOUDFRONT_URL")
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.LogMode == "" {
		cfg.Server.LogMode = "development"
	}
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverCSV
	}
	if cfg.Store.DataFile == "" {
		cfg.Store.DataFile = "symptoms.csv"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "./data/symptoms.db"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
}

// AuthEnabled reports whether the API requires a bearer token.
func (c *Config) AuthEnabled() bool { return c.Auth.JWTSecret != "" }

// S3Enabled reports whether CSV exports can be pushed to a bucket.
func (c *Config) S3Enabled() bool { return c.S3.Bucket != "" }

// PostgresDSN builds the DSN from the DB_* settings.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.Port,
	)
}

// OpenDB connects to the database selected by Store.Driver. The csv driver
// has no database and returns nil.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	switch cfg.Store.Driver {
	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	case DriverSQLite:
		if err := ensureDir(cfg.Store.SQLitePath); err != nil {
			return nil, err
		}
		db, err := gorm.Open(sqlite.Open(cfg.Store.SQLitePath), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil
	default:
		return nil, nil
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}
