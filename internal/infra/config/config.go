package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddress string
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PasswordPepper  string

	CookieDomain     string
	AllowedOrigins   []string
	AllowCredentials bool

	LoginMaxAttempts int
	LoginWindow      time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	for _, key := range []string{
		"HTTP_ADDRESS",
		"DATABASE_URL",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
		"JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "PASSWORD_PEPPER",
		"COOKIE_DOMAIN", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
		"LOGIN_MAX_ATTEMPTS", "LOGIN_WINDOW",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("ALLOW_CREDENTIALS", true)
	viper.SetDefault("LOGIN_MAX_ATTEMPTS", 10)
	viper.SetDefault("LOGIN_WINDOW", "15m")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddress:      viper.GetString("HTTP_ADDRESS"),
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		RedisAddress:     viper.GetString("REDIS_ADDRESS"),
		RedisPassword:    viper.GetString("REDIS_PASSWORD"),
		RedisDB:          viper.GetInt("REDIS_DB"),
		MinioEndpoint:    viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:   viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:   viper.GetString("MINIO_SECRET_KEY"),
		MinioBucket:      viper.GetString("MINIO_BUCKET"),
		MinioUseSSL:      viper.GetBool("MINIO_USE_SSL"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		AccessTokenTTL:   viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:  viper.GetDuration("REFRESH_TOKEN_TTL"),
		PasswordPepper:   viper.GetString("PASSWORD_PEPPER"),
		CookieDomain:     viper.GetString("COOKIE_DOMAIN"),
		AllowedOrigins:   viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials: viper.GetBool("ALLOW_CREDENTIALS"),
		LoginMaxAttempts: viper.GetInt("LOGIN_MAX_ATTEMPTS"),
		LoginWindow:      viper.GetDuration("LOGIN_WINDOW"),
	}

	switch {
	case cfg.DatabaseURL == "":
		return nil, fmt.Errorf("DATABASE_URL is required")
	case cfg.RedisAddress == "":
		return nil, fmt.Errorf("REDIS_ADDRESS is required")
	case cfg.MinioEndpoint == "":
		return nil, fmt.Errorf("MINIO_ENDPOINT is required")
	case cfg.MinioBucket == "":
		return nil, fmt.Errorf("MINIO_BUCKET is required")
	case cfg.JWTSecret == "":
		return nil, fmt.Errorf("JWT_SECRET is required")
	case cfg.AccessTokenTTL <= 0:
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be a positive duration")
	case cfg.RefreshTokenTTL <= 0:
		return nil, fmt.Errorf("REFRESH_TOKEN_TTL must be a positive duration")
	}

	return cfg, nil
}
