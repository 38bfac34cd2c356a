package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisHoldDB   int    `mapstructure:"REDIS_HOLD_DB"`

	// Availability engine defaults.
	SlotGranularityMin int `mapstructure:"SLOT_GRANULARITY_MIN"`
	SlotCacheTTLSec    int `mapstructure:"SLOT_CACHE_TTL_SEC"`
	HoldTTLSec         int `mapstructure:"HOLD_TTL_SEC"`

	// Smart-slot tuning defaults.
	SmartStepEngineMin    int `mapstructure:"SMART_STEP_ENGINE_MIN"`
	SmartBufferMin        int `mapstructure:"SMART_BUFFER_MIN"`
	SmartMinUsableGapMin  int `mapstructure:"SMART_MIN_USABLE_GAP_MIN"`
	SmartMaxPerHour       int `mapstructure:"SMART_MAX_PER_HOUR"`
	SmartMinWasteSavedMin int `mapstructure:"SMART_MIN_WASTE_SAVED_MIN"`
	SmartMaxGridOffsetMin int `mapstructure:"SMART_MAX_GRID_OFFSET_MIN"`
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
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_HOLD_DB", 1)
	viper.SetDefault("SLOT_GRANULARITY_MIN", 5)
	viper.SetDefault("SLOT_CACHE_TTL_SEC", 60)
	viper.SetDefault("HOLD_TTL_SEC", 300)
	viper.SetDefault("SMART_STEP_ENGINE_MIN", 1)
	viper.SetDefault("SMART_BUFFER_MIN", 5)
	viper.SetDefault("SMART_MIN_USABLE_GAP_MIN", 15)
	viper.SetDefault("SMART_MAX_PER_HOUR", 2)
	viper.SetDefault("SMART_MIN_WASTE_SAVED_MIN", 10)
	viper.SetDefault("SMART_MAX_GRID_OFFSET_MIN", 20)

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
