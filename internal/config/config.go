package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env          string
	Port         int
	DBURL        string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	CacheTTL     time.Duration
	CORSOrigins  []string
	JWTSecret    string
	OTLPEndpoint string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8000)

	return Config{
		Env:          env,
		Port:         port,
		DBURL:        buildDBURL(),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		CacheTTL:     time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "userhub")
	pass := getEnv("DB_PASSWORD", "userhub")
	name := getEnv("DB_NAME", "userhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
