package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Calendar sync and slot search tuning.
	SyncTimeoutSeconds int `mapstructure:"SYNC_TIMEOUT_SECONDS"`
	SearchWorkerCap    int `mapstructure:"SEARCH_WORKER_CAP"`

	// Background worker.
	WorkerConcurrency        int    `mapstructure:"WORKER_CONCURRENCY"`
	RefreshCronSpec          string `mapstructure:"REFRESH_CRON_SPEC"`
	RolloverCronSpec         string `mapstructure:"ROLLOVER_CRON_SPEC"`
	RecommendationTTLSeconds int    `mapstructure:"RECOMMENDATION_TTL_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SYNC_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SEARCH_WORKER_CAP", 8)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("REFRESH_CRON_SPEC", "@every 30m")
	viper.SetDefault("ROLLOVER_CRON_SPEC", "0 0 1 * *")
	viper.SetDefault("RECOMMENDATION_TTL_SECONDS", 600)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
