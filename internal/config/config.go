package config

import (
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	ClientURL   string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.Environment = getenv("APP_ENV", "development")
	c.ClientURL = getenv("CLIENT_URL", "http://localhost:5173")
	return c
}

// AllowedOrigins returns the CORS origins for the HTTP and socket
// surface. In production only the configured client URL (with and
// without a trailing slash) is allowed; in development the usual Vite
// dev hosts are.
func (c Config) AllowedOrigins() []string {
	if c.Environment == "production" {
		base := strings.TrimSuffix(c.ClientURL, "/")
		if base == "" {
			return nil
		}
		return []string{base, base + "/"}
	}
	return []string{"http://localhost:5173", "http://127.0.0.1:5173"}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
