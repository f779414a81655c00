package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server needs, resolved once at process start.
// Env:
//
//	ADDR, DB_DRIVER (mysql|postgres|sqlite), DB_DSN or the MYSQL_* parts,
//	JWT_SECRET (required), TOKEN_TTL, LOGIN_RATE, LOGIN_BURST
type Config struct {
	Addr     string
	DBDriver string
	DBDSN    string

	MySQLHost string
	MySQLPort string
	MySQLUser string
	MySQLPass string
	MySQLDB   string

	JWTSecret string
	TokenTTL  time.Duration

	LoginRate  float64 // login attempts per second per client IP
	LoginBurst int
}

// ErrNoSecret means JWT_SECRET was not set. The server refuses to start
// rather than fall back to a baked-in key.
var ErrNoSecret = errors.New("JWT_SECRET is required")

func Load() (*Config, error) {
	_ = loadDotEnv()

	cfg := &Config{
		Addr:       getenv("ADDR", ":4000"),
		DBDriver:   getenv("DB_DRIVER", "mysql"),
		DBDSN:      os.Getenv("DB_DSN"),
		MySQLHost:  getenv("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:  getenv("MYSQL_PORT", "3306"),
		MySQLUser:  getenv("MYSQL_USER", "root"),
		MySQLPass:  os.Getenv("MYSQL_PASS"),
		MySQLDB:    getenv("MYSQL_DB", "taskboard"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   getenvDuration("TOKEN_TTL", 24*time.Hour),
		LoginRate:  getenvFloat("LOGIN_RATE", 1),
		LoginBurst: getenvInt("LOGIN_BURST", 5),
	}
	if cfg.JWTSecret == "" {
		return nil, ErrNoSecret
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}
