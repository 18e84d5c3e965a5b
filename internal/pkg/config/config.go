package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// minJWTSecretBytes is the HS256 key length floor.
const minJWTSecretBytes = 32

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	SeedData  bool   `env:"SEED_DATA,  default=false"`

	Auth  AuthConfig
	Audit AuditConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET, required"`
	TokenTTL           time.Duration `env:"JWT_TTL,              default=24h"`
	PasswordMinLength  int           `env:"PASSWORD_MIN_LENGTH,  default=6"`
	LockoutMaxAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS, default=5"`
	LockoutWindow      time.Duration `env:"LOCKOUT_WINDOW,       default=15m"`
	LoginRatePerSec    float64       `env:"LOGIN_RATE_PER_SEC,   default=5"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=userhub"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads and validates configuration from lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < minJWTSecretBytes {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretBytes)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.PasswordMinLength <= 0 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be positive, got %d", c.Auth.PasswordMinLength)
	}
	return nil
}
