package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/notekeep/notekeep-go/internal/crypto"
)

const defaultSecretKey = "change-me-to-a-secure-value"

var ErrDefaultSecretInProduction = errors.New("SECRET_KEY must be set in production environment")

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	SecretKey      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	Hash           crypto.HashParams
}

// Load reads configuration from the environment. The token signing algorithm
// is fixed to HS256 and is not configurable.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/notekeep?parseTime=true"),
		SecretKey:      getEnv("SECRET_KEY", defaultSecretKey),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Hash:           crypto.DefaultHashParams(),
	}

	minutes, err := getPositiveInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.TokenTTL = time.Duration(minutes) * time.Minute

	memory, err := getBoundedInt("HASH_MEMORY_KIB", int(cfg.Hash.Memory), crypto.MaxMemoryKiB)
	if err != nil {
		return Config{}, err
	}
	iterations, err := getBoundedInt("HASH_ITERATIONS", int(cfg.Hash.Iterations), crypto.MaxIterations)
	if err != nil {
		return Config{}, err
	}
	parallelism, err := getBoundedInt("HASH_PARALLELISM", int(cfg.Hash.Parallelism), math.MaxUint8)
	if err != nil {
		return Config{}, err
	}
	cfg.Hash.Memory = uint32(memory)
	cfg.Hash.Iterations = uint32(iterations)
	cfg.Hash.Parallelism = uint8(parallelism)
	if err := cfg.Hash.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.IsProduction() && cfg.SecretKey == defaultSecretKey {
		return Config{}, ErrDefaultSecretInProduction
	}

	return cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getPositiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

// getBoundedInt is getPositiveInt with an inclusive upper bound, checked
// before any narrowing conversion by the caller.
func getBoundedInt(key string, fallback, max int) (int, error) {
	n, err := getPositiveInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, fmt.Errorf("%s must be at most %d, got %d", key, max, n)
	}
	return n, nil
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
