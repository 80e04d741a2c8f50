package database

import (
	"fmt"
	"strings"
	"time"
)

// Settings describes how to reach PostgreSQL. It is built from configuration by
// the caller; this package never reads the environment itself.
type Settings struct {
	// URL, when set, is used verbatim and the discrete fields below are ignored.
	URL string

	Host           string
	Port           int
	Name           string
	User           string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration

	// Pool shape. MaxIdleConns == 0 means every acquisition dials a fresh
	// connection and release closes it.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// ConnectRetries is the number of extra attempts made by OpenPostgres.
	ConnectRetries int

	// QueryLog enables gorm statement logging at warn level and above.
	QueryLog bool
}

// DSN renders a libpq keyword/value connection string.
func (s Settings) DSN() string {
	if s.URL != "" {
		return s.URL
	}
	parts := []string{
		"host=" + quoteDSN(s.Host),
		fmt.Sprintf("port=%d", s.Port),
		"dbname=" + quoteDSN(s.Name),
		"user=" + quoteDSN(s.User),
	}
	if s.Password != "" {
		parts = append(parts, "password="+quoteDSN(s.Password))
	}
	if s.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteDSN(s.SSLMode))
	}
	if s.ConnectTimeout > 0 {
		secs := int(s.ConnectTimeout.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", secs))
	}
	return strings.Join(parts, " ")
}

// String is DSN with the password masked, safe for logs.
func (s Settings) String() string {
	if s.URL != "" {
		return "url=<redacted>"
	}
	masked := s
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	return masked.DSN()
}

func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
