// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the root configuration for the server process.
type Config struct {
	Server Server
	Log    Log
	DB     DB
	Redis  Redis
	Auth   Auth
	Images Images
}

// Server holds HTTP listener settings.
type Server struct {
	Addr    string `env:"SERVER_ADDR" envDefault:":8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`
}

// Log holds logger settings.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// DB holds PostgreSQL connection and pool settings.
// InstanceName selects a Cloud SQL unix socket and takes precedence over Host/Port.
type DB struct {
	User         string `env:"DB_USER"`
	Password     string `env:"DB_PASSWORD"`
	Name         string `env:"DB_NAME"`
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	InstanceName string `env:"INSTANCE_CONNECTION_NAME"`

	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"false"`
}

// Redis holds the optional cache connection. An empty Host disables caching.
type Redis struct {
	Host     string        `env:"REDIS_HOST"`
	Port     string        `env:"REDIS_PORT" envDefault:"6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL time.Duration `env:"DIRECTORY_CACHE_TTL" envDefault:"10m"`
}

// Addr returns the host:port address of the Redis server.
func (r Redis) Addr() string {
	return r.Host + ":" + r.Port
}

// Auth holds token and password hashing settings.
type Auth struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"ACCESS_TOKEN_EXPIRE" envDefault:"30m"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
}

// Images holds profile image storage settings.
// Backend is "local" (files under Dir) or "s3".
type Images struct {
	Backend      string `env:"IMAGE_STORE" envDefault:"local"`
	Dir          string `env:"PROFILE_IMAGE_DIR" envDefault:"images/profile"`
	DefaultImage string `env:"PROFILE_DEFAULT_IMAGE" envDefault:"default_user.png"`

	S3Bucket    string        `env:"S3_BUCKET"`
	S3Region    string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string        `env:"S3_ENDPOINT"`
	S3AccessKey string        `env:"S3_ACCESS_KEY"`
	S3SecretKey string        `env:"S3_SECRET_KEY"`
	S3Prefix    string        `env:"S3_PREFIX" envDefault:"profile"`
	S3Timeout   time.Duration `env:"S3_TIMEOUT" envDefault:"10s"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
