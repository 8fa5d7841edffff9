package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const MinimumJWTKeyLength = 32

var (
	ErrMissingConnectionString = errors.New("CONNECTION_STRING is required")
	ErrJWTKeyTooShort          = fmt.Errorf("JWT_KEY must be at least %d bytes", MinimumJWTKeyLength)
	ErrJWTValidity             = errors.New("JWT_VALID_MINUTES must be positive")
)

type DatabaseConfig struct {
	ConnectionString string        `envconfig:"CONNECTION_STRING"`
	MaxOpenConns     int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns     int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime  time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

// DSN returns the relational store connection string.
func (c *DatabaseConfig) DSN() string {
	return c.ConnectionString
}

type JWTConfig struct {
	Issuer         string `envconfig:"JWT_ISSUER" required:"true"`
	Audience       string `envconfig:"JWT_AUDIENCE" required:"true"`
	Key            string `envconfig:"JWT_KEY"`
	ValidInMinutes int    `envconfig:"JWT_VALID_MINUTES" default:"60"`
}

// ValidFor is the lifetime of an issued token.
func (c JWTConfig) ValidFor() time.Duration {
	return time.Duration(c.ValidInMinutes) * time.Minute
}

type ServerConfig struct {
	Port          string  `envconfig:"SERVER_PORT" default:"8080"`
	Env           string  `envconfig:"APP_ENV" default:"production"`
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`
	AuthRateLimit float64 `envconfig:"AUTH_RATE_LIMIT" default:"5"`
}

func (s *ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(s.Env, "development")
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"BCRYPT_COST" default:"12"`
}

// SwaggerConfig guards the API documentation with basic auth.
type SwaggerConfig struct {
	Username string `envconfig:"SWAGGER_USERNAME"`
	Password string `envconfig:"SWAGGER_PASSWORD"`
}

func (s *SwaggerConfig) Enabled() bool {
	return s.Username != "" && s.Password != ""
}

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	Password PasswordConfig
	Swagger  SwaggerConfig
}

// LoadConfig reads the optional dotenv file and decodes the environment.
// A missing dotenv file is not an error; the process environment is used as-is.
func LoadConfig(dotenvPath string) (*Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the bootstrap requirements that envconfig tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.ConnectionString) == "" {
		return ErrMissingConnectionString
	}
	if len(c.JWT.Key) < MinimumJWTKeyLength {
		return ErrJWTKeyTooShort
	}
	if c.JWT.ValidInMinutes <= 0 {
		return ErrJWTValidity
	}
	return nil
}
