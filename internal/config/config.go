package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Digest   DigestConfig
	RSVP     RSVPConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// StoreConfig selects the durable backend. The memory backend needs no
// infrastructure and is meant for development and tests.
type StoreConfig struct {
	Backend string
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int
}

// RedisConfig with an empty Addr disables the cache, the pub/sub fanout,
// the rate limiter and idempotency replay.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AMQPConfig with an empty URL disables promotion notices.
type AMQPConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromEmail   string
	FromName    string
	UseSTARTTLS bool
}

type DigestConfig struct {
	Recipient string
	Subject   string
	Lookahead time.Duration
	// Every is the ticker interval; zero disables the periodic digest.
	Every time.Duration
}

type RSVPConfig struct {
	// RateLimit is requests per attendee per window; zero disables.
	RateLimit  int
	RateWindow time.Duration
	MaxNoteLen int
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := envIntStrict("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	backend := env("STORE_BACKEND", BackendPostgres)
	if backend != BackendPostgres && backend != BackendMemory {
		return nil, fmt.Errorf("%s: STORE_BACKEND must be postgres or memory, got %q", op, backend)
	}

	var pgCfg PostgresConfig
	if backend == BackendPostgres {
		pgPort, err := envIntStrict("POSTGRES_PORT", 5432)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		pgUser := os.Getenv("POSTGRES_USER")
		if pgUser == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
		}

		pgPassword := os.Getenv("POSTGRES_PASSWORD")
		if pgPassword == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
		}

		pgName := os.Getenv("POSTGRES_DB")
		if pgName == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
		}

		pgCfg = PostgresConfig{
			User:     pgUser,
			Password: pgPassword,
			Name:     pgName,
			Host:     env("POSTGRES_HOST", "localhost"),
			Port:     pgPort,
			SSLMode:  env("POSTGRES_SSLMODE", "disable"),
			MaxConns: envInt("POSTGRES_MAX_CONNS", 0),
		}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("%s: missing JWT_SECRET", op)
	}

	smtpPort, err := envIntStrict("SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Config{
		Server: ServerConfig{
			Host: env("SERVER_HOST", "localhost"),
			Port: serverPort,
		},
		Store: StoreConfig{
			Backend: backend,
		},
		Postgres: pgCfg,
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		AMQP: AMQPConfig{
			URL: os.Getenv("AMQP_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: jwtSecret,
		},
		SMTP: SMTPConfig{
			Host:        os.Getenv("SMTP_HOST"),
			Port:        smtpPort,
			Username:    os.Getenv("SMTP_USERNAME"),
			Password:    os.Getenv("SMTP_PASSWORD"),
			FromEmail:   os.Getenv("SMTP_FROM_EMAIL"),
			FromName:    env("SMTP_FROM_NAME", "Denver Songwriters Collective"),
			UseSTARTTLS: envBool("SMTP_STARTTLS", true),
		},
		Digest: DigestConfig{
			Recipient: os.Getenv("DIGEST_RECIPIENT"),
			Subject:   env("DIGEST_SUBJECT", "Upcoming at the Collective"),
			Lookahead: envDur("DIGEST_LOOKAHEAD", 7*24*time.Hour),
			Every:     envDur("DIGEST_EVERY", 0),
		},
		RSVP: RSVPConfig{
			RateLimit:  envInt("RSVP_RATE_LIMIT", 10),
			RateWindow: envDur("RSVP_RATE_WINDOW", time.Minute),
			MaxNoteLen: envInt("RSVP_MAX_NOTE_LEN", 500),
		},
	}, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envIntStrict(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
