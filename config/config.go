package config

import (
	"log"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

// JWTConfig carries the signing secret and token lifetimes. It is loaded once at
// startup and handed to the auth service; nothing re-reads it per request.
type JWTConfig struct {
	SecretKey         string `mapstructure:"secret_key"`
	AccessTokenHours  int    `mapstructure:"access_token_hours"`
	RefreshTokenHours int    `mapstructure:"refresh_token_hours"`
}

type CORSConfig struct {
	// AllowedOrigins is a comma-separated rule list: exact origins, wildcard
	// domains like https://*.vercel.app, or regex:-prefixed patterns.
	// Empty means every origin is allowed.
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type AIConfig struct {
	Provider       string `mapstructure:"provider"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	DailyLimit     int    `mapstructure:"daily_limit"`
	CacheTTLDays   int    `mapstructure:"cache_ttl_days"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT  JWTConfig  `mapstructure:"jwt"`
	CORS CORSConfig `mapstructure:"cors"`
	AI   AIConfig   `mapstructure:"ai"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_token_hours", 168)  // 7 days
	viper.SetDefault("jwt.refresh_token_hours", 720) // 30 days
	viper.SetDefault("ai.timeout_seconds", 30)
	viper.SetDefault("ai.daily_limit", 20)
	viper.SetDefault("ai.cache_ttl_days", 30)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	// The signing secret is load-bearing for every authenticated request;
	// refusing to boot without it beats minting unverifiable tokens.
	if AppConfig.JWT.SecretKey == "" {
		log.Fatal("jwt.secret_key is not configured")
	}
}
