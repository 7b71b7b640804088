package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Providers  ProvidersConfig
	Reconciler ReconcilerConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey      string
	ExpirationTime int // in hours
}

type ProvidersConfig struct {
	PeyflexBaseURL   string
	PeyflexToken     string
	TopupmateBaseURL string
	TopupmateAPIKey  string
	SquadBaseURL     string
	SquadSecretKey   string
	CallTimeout      time.Duration
}

type ReconcilerConfig struct {
	Interval  time.Duration
	Threshold time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "bills_wallet"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "your-secret-key"),
			ExpirationTime: getEnvInt("JWT_EXPIRY", 24),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Providers: ProvidersConfig{
			PeyflexBaseURL:   getEnv("PEYFLEX_BASE_URL", "https://peyflex.com.ng"),
			PeyflexToken:     getEnv("PEYFLEX_TOKEN", ""),
			TopupmateBaseURL: getEnv("TOPUPMATE_BASE_URL", "https://topupmate.com/api"),
			TopupmateAPIKey:  getEnv("TOPUPMATE_API_KEY", ""),
			SquadBaseURL:     getEnv("SQUAD_BASE_URL", "https://sandbox-api-d.squadco.com"),
			SquadSecretKey:   getEnv("SQUAD_SECRET_KEY", ""),
			CallTimeout:      getEnvDuration("PROVIDER_CALL_TIMEOUT", 30*time.Second),
		},
		Reconciler: ReconcilerConfig{
			Interval:  getEnvDuration("RECONCILER_INTERVAL", 5*time.Minute),
			Threshold: getEnvDuration("RECONCILER_THRESHOLD", 15*time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
