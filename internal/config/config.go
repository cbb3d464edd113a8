package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Classifier  ClassifierConfig `mapstructure:"classifier"`
	Dataset     DatasetConfig    `mapstructure:"dataset"`
	Simulation  SimulationConfig `mapstructure:"simulation"`
	Security    SecurityConfig   `mapstructure:"security"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ClassifierConfig points at the external phantom classification service.
type ClassifierConfig struct {
	ServiceURL string  `mapstructure:"service_url"`
	Timeout    int     `mapstructure:"timeout"`
	Threshold  float64 `mapstructure:"threshold"`
}

type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

type SimulationConfig struct {
	DefaultTargetPercent float64 `mapstructure:"default_target_percent"`
	InventoryCacheTTL    string  `mapstructure:"inventory_cache_ttl"`
}

type SecurityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" json:"-" yaml:"-"`
	JWTExpiry string `mapstructure:"jwt_expiry"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("security.jwt_secret", "JWT_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind JWT_SECRET environment variable: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Environment != "development" && config.Security.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required in non-development environments")
	}

	if config.Security.JWTExpiry != "" {
		if _, err := time.ParseDuration(config.Security.JWTExpiry); err != nil {
			return nil, fmt.Errorf("invalid JWT expiry duration: %w", err)
		}
	}

	if config.Simulation.InventoryCacheTTL != "" {
		if _, err := time.ParseDuration(config.Simulation.InventoryCacheTTL); err != nil {
			return nil, fmt.Errorf("invalid inventory cache TTL: %w", err)
		}
	}

	if config.Classifier.Threshold <= 0 || config.Classifier.Threshold >= 1 {
		return nil, fmt.Errorf("classifier threshold must be in (0,1), got %v", config.Classifier.Threshold)
	}

	if config.Simulation.DefaultTargetPercent < 0 || config.Simulation.DefaultTargetPercent > 100 {
		return nil, fmt.Errorf("default target percent must be in [0,100], got %v", config.Simulation.DefaultTargetPercent)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "phantomwatt")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("classifier.service_url", "http://localhost:5000")
	viper.SetDefault("classifier.timeout", 10)
	viper.SetDefault("classifier.threshold", 0.5)

	viper.SetDefault("dataset.path", "data/sample_data.csv")

	viper.SetDefault("simulation.default_target_percent", 20.0)
	viper.SetDefault("simulation.inventory_cache_ttl", "5m")

	viper.SetDefault("security.jwt_secret", "")
	viper.SetDefault("security.jwt_expiry", "24h")
}
