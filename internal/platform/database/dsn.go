// Package database holds connection-string and tracing helpers shared by the
// API server and the migration command.
package database

import (
	"net/url"
	"strings"
)

const preparedBinaryParam = "disable_prepared_binary_result"

// ConnectionURL returns raw with the prepared-binary flag appended when asked
// for and not already present. Keyword DSNs and unparsable input pass through.
func ConnectionURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	q := u.Query()
	if q.Has(preparedBinaryParam) {
		return raw
	}
	q.Set(preparedBinaryParam, "yes")
	u.RawQuery = q.Encode()
	return u.String()
}

// Name extracts the database name from a postgres:// URL or a keyword DSN.
func Name(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		if name := strings.Trim(u.Path, "/ "); name != "" {
			return name
		}
	}
	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key != "dbname" {
			continue
		}
		if value = strings.Trim(value, `"'`); value != "" {
			return value
		}
	}
	return ""
}
