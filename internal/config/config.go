package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Storage  *StorageConfig  `mapstructure:"storage"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	PublicURL          string   `mapstructure:"public_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	LogLevel           string   `mapstructure:"log_level"`
	AuthRatePerSecond  float64  `mapstructure:"auth_rate_per_second"`
	AuthRateBurst      int      `mapstructure:"auth_rate_burst"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds the keyword/value connection string understood by pgx.
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(c.API,
		validation.Field(&c.API.Environment, validation.Required, validation.In(EnvDevelopment, EnvProduction, EnvTest)),
		validation.Field(&c.API.Port, validation.Required),
		validation.Field(&c.API.JWTSigningKey, validation.Required),
	); err != nil {
		return fmt.Errorf("api -> %w", err)
	}

	if err := validation.ValidateStruct(c.Database,
		validation.Field(&c.Database.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
	); err != nil {
		return fmt.Errorf("database -> %w", err)
	}

	if c.Storage.Enabled {
		if err := validation.ValidateStruct(c.Storage,
			validation.Field(&c.Storage.Endpoint, validation.Required),
			validation.Field(&c.Storage.Bucket, validation.Required),
		); err != nil {
			return fmt.Errorf("storage -> %w", err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", EnvDevelopment)
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.public_url", "http://localhost:8080")
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.auth_rate_per_second", 1)
	v.SetDefault("api.auth_rate_burst", 5)

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "volunteer-hub.db")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "volunteer_hub")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "volunteer-hub")
	v.SetDefault("storage.use_ssl", false)
}

// Load reads the yaml file at path. Every key can be overridden from the
// environment, e.g. api.port -> API_PORT.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	if err = conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	return conf, nil
}

func unmarshal(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	// Unmarshal goes through AllSettings, so environment overrides of
	// nested keys are applied as long as the key has a default.
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	return conf, nil
}

// Watch re-reads the api.log_level key whenever the config file changes and
// hands it to onLevel.
func Watch(path string, onLevel func(level string)) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onLevel(v.GetString("api.log_level"))
	})
	v.WatchConfig()

	return nil
}
