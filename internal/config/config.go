package config

import (
	"os"
	"strings"
)

// Config carries the runtime settings. Everything has a default that works
// for a single local process: a sqlite file next to the binary and the
// in-memory event transport.
type Config struct {
	ListenAddr   string
	DatabasePath string
	PostgresDSN  string

	// EventTransport is one of "channel", "redis", "kafka".
	EventTransport string
	RedisAddr      string
	KafkaBrokers   []string

	// AdminEmail/AdminPassword seed the administrator account on startup
	// when no user with that email exists yet.
	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	cfg := Config{
		ListenAddr:     ":8080",
		DatabasePath:   "bus_service.db",
		EventTransport: "channel",
		RedisAddr:      "localhost:6379",
		KafkaBrokers:   []string{"localhost:9092"},
		AdminEmail:     "admin@busline.local",
		AdminPassword:  "admin",
	}

	if v := os.Getenv("BUSLINE_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("BUSLINE_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("BUSLINE_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("BUSLINE_EVENT_TRANSPORT"); v != "" {
		cfg.EventTransport = v
	}
	if v := os.Getenv("BUSLINE_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("BUSLINE_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("BUSLINE_ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("BUSLINE_ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}

	return cfg
}
