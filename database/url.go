package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL joins a server URL with a database name and defaults
// sslmode to disable. Without a database name the base URL is returned untouched.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return baseURL
	}

	parsed.Path = "/" + databaseName

	query := parsed.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
