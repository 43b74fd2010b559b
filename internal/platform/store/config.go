package store

import (
	"time"

	"facegate/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	PG PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int
	PingTimeout    time.Duration
}

// FromConfig reads SERVICE_PGSQL_* style keys from cfg
func FromConfig(cfg config.Conf) Config {
	return Config{PG: PGConfig{
		Enabled:        cfg.MayBool("ENABLED", false),
		URL:            cfg.MayString("URL", ""),
		MaxConns:       int32(cfg.MayPositiveInt("MAX_CONNS", 4)),
		LogSQL:         cfg.MayBool("LOG_SQL", false),
		SlowQueryMs:    cfg.MayInt("SLOW_QUERY_MS", 200),
		ConnectRetries: cfg.MayPositiveInt("CONNECT_RETRIES", 10),
		PingTimeout:    cfg.MayDuration("PING_TIMEOUT", 3*time.Second),
	}}
}
