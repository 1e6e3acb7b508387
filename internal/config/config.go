package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Training TrainingConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver      string // "local" or "s3"
	LocalDir    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// TrainingConfig controls the simulated training runs. The delays and the
// success rate are simulation parameters, not correctness requirements.
type TrainingConfig struct {
	StartDelay  time.Duration
	RunDuration time.Duration
	SuccessRate float64
}

type MetricsConfig struct {
	WorkerAddr string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	startDelay, err := getEnvDuration("TRAINING_START_DELAY", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TRAINING_START_DELAY: %w", err)
	}

	runDuration, err := getEnvDuration("TRAINING_RUN_DURATION", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TRAINING_RUN_DURATION: %w", err)
	}

	successRate, err := getEnvFloat("TRAINING_SUCCESS_RATE", 0.9)
	if err != nil {
		return nil, fmt.Errorf("invalid TRAINING_SUCCESS_RATE: %w", err)
	}
	if successRate < 0 || successRate > 1 {
		return nil, fmt.Errorf("TRAINING_SUCCESS_RATE must be in [0, 1], got %v", successRate)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "local"),
			LocalDir:    getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			S3Bucket:    getEnv("STORAGE_S3_BUCKET", ""),
			S3Region:    getEnv("STORAGE_S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("STORAGE_S3_ENDPOINT", ""),
			S3PathStyle: getEnv("STORAGE_S3_PATH_STYLE", "") == "true",
		},
		Training: TrainingConfig{
			StartDelay:  startDelay,
			RunDuration: runDuration,
			SuccessRate: successRate,
		},
		Metrics: MetricsConfig{
			WorkerAddr: getEnv("METRICS_ADDR", ":9091"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
