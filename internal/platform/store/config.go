package store

import (
	"time"

	"conflux/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot guard, zero picks the defaults below
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	LogSQL  bool

	// ClientName and ClientTag end up in system.query_log client info
	ClientName string
	ClientTag  string
}

func (c PGConfig) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return 20
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return 3 * time.Second
}

// FromConf reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* off root
// clickhouse stays off unless SERVICE_CLICKHOUSE_ENABLED is set
func FromConf(root config.Conf, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	c := Config{
		AppName: "conflux-" + tag,
		PG: PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			Enabled:    ch.MayBool("ENABLED", false),
			LogSQL:     ch.MayBool("LOG_SQL", false),
			ClientName: "conflux",
			ClientTag:  tag,
		},
	}
	if c.CH.Enabled {
		c.CH.URL = ch.MustString("DBURL")
	}
	return c
}
