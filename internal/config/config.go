package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string           `mapstructure:"service_name"`
	HTTP        HTTPConfig       `mapstructure:"http"`
	Mongo       MongoConfig      `mapstructure:"mongo"`
	Redis       RedisConfig      `mapstructure:"redis"`
	MinIO       MinIOConfig      `mapstructure:"minio"`
	NATS        NATSConfig       `mapstructure:"nats"`
	Auth        AuthConfig       `mapstructure:"auth"`
	SMTP        SMTPConfig       `mapstructure:"smtp"`
	Metrics     MetricsConfig    `mapstructure:"metrics"`
	Tracing     TracingConfig    `mapstructure:"tracing"`
	Submission  SubmissionConfig `mapstructure:"submission"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Enabled  bool   `mapstructure:"enabled"`
}

type MetricsConfig struct {
	Port string `mapstructure:"port"`
}

type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type SubmissionConfig struct {
	MinImages       int   `mapstructure:"min_images"`
	MaxImages       int   `mapstructure:"max_images"`
	MaxImageSize    int64 `mapstructure:"max_image_size"`
	DefaultPageSize int   `mapstructure:"default_page_size"`
	MaxPageSize     int   `mapstructure:"max_page_size"`
}

// Load reads configuration from config.yaml (if present) and the
// environment. A .env file is loaded first so local development can rely
// on it; real environment variables always win.
func Load(path string) (*Config, error) {
	// No .env is the normal case outside local development.
	_ = godotenv.Load()

	viper.SetDefault("service_name", "realestate")

	viper.SetDefault("http.port", "8080")
	viper.SetDefault("http.read_timeout", "15s")
	viper.SetDefault("http.write_timeout", "30s")
	viper.SetDefault("http.shutdown_timeout", "10s")

	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "realestate")
	viper.SetDefault("mongo.connect_timeout", "10s")
	viper.SetDefault("mongo.min_pool_size", 0)
	viper.SetDefault("mongo.max_pool_size", 100)

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "1h")

	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.bucket", "listing-images")
	viper.SetDefault("minio.use_ssl", false)

	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.connect_timeout", "5s")

	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.enabled", false)

	viper.SetDefault("metrics.port", "9091")
	viper.SetDefault("tracing.otlp_endpoint", "")

	viper.SetDefault("submission.min_images", 3)
	viper.SetDefault("submission.max_images", 10)
	viper.SetDefault("submission.max_image_size", 5*1024*1024)
	viper.SetDefault("submission.default_page_size", 12)
	viper.SetDefault("submission.max_page_size", 100)

	if path != "" {
		if fi, err := os.Stat(path); err == nil {
			if fi.IsDir() {
				viper.AddConfigPath(path)
				viper.SetConfigName("config")
				viper.SetConfigType("yaml")
			} else {
				viper.SetConfigFile(path)
			}
		}
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("REALESTATE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(envKeyReplacer())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret (REALESTATE_AUTH_JWT_SECRET) is required")
	}

	return &cfg, nil
}
