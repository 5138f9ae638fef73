package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/worldatlas/worldatlas-go/internal/countries"
	"github.com/worldatlas/worldatlas-go/internal/crypto"
)

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"

	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultJWTSecret = "dev-secret-change-in-production"
)

var ErrDefaultSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port             string
	Env              string
	StoreDriver      string
	MongoURI         string
	MongoDatabase    string
	DatabaseDSN      string
	JWTSecret        string
	JWTExpiry        time.Duration
	HashAlgorithm    string
	CORSOrigins      []string
	CountriesBaseURL string
}

func Load() (Config, error) {
	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "720h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	cfg := Config{
		Port:             getEnv("PORT", "5000"),
		Env:              getEnv("NODE_ENV", getEnv("ENV", EnvDevelopment)),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:         getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "worldatlas"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/worldatlas?parseTime=true"),
		JWTSecret:        getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:        expiry,
		HashAlgorithm:    strings.ToLower(getEnv("HASH_ALGORITHM", crypto.AlgorithmBcrypt)),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		CountriesBaseURL: getEnv("COUNTRIES_BASE_URL", countries.DefaultBaseURL),
	}

	return cfg, cfg.Validate()
}

// Validate rejects unknown drivers and algorithms, and the development
// secret in production.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if _, err := crypto.NewHasher(c.HashAlgorithm); err != nil {
		return fmt.Errorf("HASH_ALGORITHM %q: %w", c.HashAlgorithm, err)
	}

	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}

	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return ErrDefaultSecret
	}
	return nil
}

// IsProduction reports whether error stacks must be hidden.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
