package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"invertred/internal/domain"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Referral ReferralConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// ReferralConfig carries the commission plan. Two rank tables exist in the
// wild (RANK_TABLE=legacy|compact); neither is hardcoded into the engine.
type ReferralConfig struct {
	SubscriptionPriceCents int64
	SubscriptionDays       int
	CommissionLevelsCents  []int64 // one entry per walk level, level 0 first
	MaxDepth               int
	RankTable              []domain.RankTier
	AllowZeroPayout        bool
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "root:@tcp(localhost:3306)/invertred?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  time.Hour,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "invertred",
		},
		Referral: ReferralConfig{
			SubscriptionPriceCents: getEnvInt64("SUBSCRIPTION_PRICE_CENTS", 5000),
			SubscriptionDays:       getEnvInt("SUBSCRIPTION_DAYS", 30),
			CommissionLevelsCents:  getEnvCents("COMMISSION_LEVELS_CENTS", []int64{1250, 750, 250, 150, 100}),
			MaxDepth:               getEnvInt("REFERRAL_MAX_DEPTH", 5),
			RankTable:              rankTable(getEnv("RANK_TABLE", "legacy")),
			AllowZeroPayout:        getEnvBool("PAYOUT_ALLOW_ZERO", true),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@invertred.local"),
			Password: getEnv("ADMIN_PASSWORD", "change-me-admin"),
			Name:     getEnv("ADMIN_NAME", "Administrador"),
		},
	}
	return cfg
}

func rankTable(name string) []domain.RankTier {
	if name == "compact" {
		return domain.RankTableCompact
	}
	return domain.RankTableLegacy
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvCents parses a comma-separated list of cent amounts, e.g. "1250,750,250,150,100".
func getEnvCents(key string, fallback []int64) []int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return fallback
		}
		out = append(out, n)
	}
	return out
}
