package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/alextreichler/shopfront/internal/roster"
)

// RosterConfig holds the connection form defaults for the roster tool.
type RosterConfig struct {
	Conn  roster.ConnParams
	Table string
}

// LoadRosterConfig reads ROSTER_* variables, falling back to the defaults
// the connection form starts with.
func LoadRosterConfig() RosterConfig {
	_ = godotenv.Load()

	cfg := RosterConfig{
		Conn: roster.ConnParams{
			DBName:   getEnv("ROSTER_DB_NAME", "dbtest"),
			User:     getEnv("ROSTER_DB_USER", "postgres"),
			Password: getEnv("ROSTER_DB_PASSWORD", ""),
			Host:     getEnv("ROSTER_DB_HOST", "localhost"),
			Port:     5432,
		},
		Table: getEnv("ROSTER_TABLE", "sinhvien"),
	}

	if v, ok := os.LookupEnv("ROSTER_DB_PORT"); ok {
		port, err := ParsePort(v)
		if err != nil {
			slog.Warn("Invalid ROSTER_DB_PORT. Falling back to 5432.", "ROSTER_DB_PORT", v)
		} else {
			cfg.Conn.Port = port
		}
	}
	return cfg
}

// ParsePort parses a TCP port in 1..65535.
func ParsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, strconv.ErrRange
	}
	return uint16(n), nil
}
