package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/yaml.v2"
)

const DefaultConfigPath = "config.yaml"

type Config struct {
	// Application
	AppEnv  string `yaml:"APP_ENV"`
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Upload tickets and sessions
	JWTSecret       string `yaml:"JWT_SECRET"`
	SessionTTLHours int    `yaml:"SESSION_TTL_HOURS"`

	// Storage driver: s3 or minio
	StorageDriver string `yaml:"STORAGE_DRIVER"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// MinIO configuration
	MinioEndpoint  string `yaml:"MINIO_ENDPOINT"`
	MinioAccessKey string `yaml:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `yaml:"MINIO_SECRET_KEY"`
	MinioBucket    string `yaml:"MINIO_BUCKET"`
	MinioUseSSL    bool   `yaml:"MINIO_USE_SSL"`

	// Redis session cache, disabled when REDIS_ADDR is empty
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppEnv:          "development",
		AppPort:         "8080",
		DBPort:          "5432",
		DBHost:          "localhost",
		SessionTTLHours: 24 * 30,
		StorageDriver:   "s3",
	}
}

func LoadConfig() {
	LoadConfigFile(DefaultConfigPath)
}

// LoadConfigFile reads the YAML file at path and then applies environment
// overrides. A missing file is not fatal: defaults plus environment apply.
func LoadConfigFile(path string) {
	cfg := defaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("Error reading YAML file: %s", err)
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		log.Errorf("Error parsing YAML file: %s", err)
	}

	applyEnvOverrides(&cfg)
	config = cfg
}

func applyEnvOverrides(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("APP_ENV", &cfg.AppEnv)
	str("APP_PORT", &cfg.AppPort)
	str("APP_URL", &cfg.AppURL)
	str("DB_USER", &cfg.DBUser)
	str("DB_NAME", &cfg.DBName)
	str("DB_PASSWORD", &cfg.DBPassword)
	str("DB_PORT", &cfg.DBPort)
	str("DB_HOST", &cfg.DBHost)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("STORAGE_DRIVER", &cfg.StorageDriver)
	str("AWS_S3_BUCKET", &cfg.AWSS3Bucket)
	str("AWS_S3_REGION", &cfg.AWSS3Region)
	str("AWS_ACCESS_KEY", &cfg.AWSAccessKey)
	str("AWS_SECRET_KEY", &cfg.AWSSecretKey)
	str("MINIO_ENDPOINT", &cfg.MinioEndpoint)
	str("MINIO_ACCESS_KEY", &cfg.MinioAccessKey)
	str("MINIO_SECRET_KEY", &cfg.MinioSecretKey)
	str("MINIO_BUCKET", &cfg.MinioBucket)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)

	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SessionTTLHours = hours
		}
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		cfg.MinioUseSSL = v == "true"
	}
}

func getBoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func GetConfig(key string) string {
	switch key {
	case "APP_ENV":
		return config.AppEnv
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "SESSION_TTL_HOURS":
		return strconv.Itoa(config.SessionTTLHours)
	case "STORAGE_DRIVER":
		return config.StorageDriver
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "MINIO_ENDPOINT":
		return config.MinioEndpoint
	case "MINIO_ACCESS_KEY":
		return config.MinioAccessKey
	case "MINIO_SECRET_KEY":
		return config.MinioSecretKey
	case "MINIO_BUCKET":
		return config.MinioBucket
	case "MINIO_USE_SSL":
		return getBoolString(config.MinioUseSSL)
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	default:
		return ""
	}
}

func IsProduction() bool {
	return config.AppEnv == "production"
}

func SessionTTL() time.Duration {
	return time.Duration(config.SessionTTLHours) * time.Hour
}
