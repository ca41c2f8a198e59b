package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env and then .env.<APP_ENV> if present. Missing files are not
// an error; the returned list names the files that were actually read.
func LoadDotEnv() []string {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	var loaded []string
	if err := godotenv.Load(".env"); err == nil {
		loaded = append(loaded, ".env")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		loaded = append(loaded, envFile)
	}
	return loaded
}

// ApplyEnv overrides file values with TALLER_* environment variables.
func (c *Config) ApplyEnv() {
	c.Server.Host = getString("TALLER_HOST", c.Server.Host)
	c.Server.Port = getInt("TALLER_PORT", c.Server.Port)

	c.Panel.BaseURL = strings.TrimRight(getString("TALLER_BASE_URL", c.Panel.BaseURL), "/")
	c.Panel.PollInterval = getDuration("TALLER_POLL_INTERVAL", c.Panel.PollInterval)
	c.Panel.HTTPTimeout = getDuration("TALLER_HTTP_TIMEOUT", c.Panel.HTTPTimeout)
	c.Panel.UseWebSocket = getBool("TALLER_USE_WEBSOCKET", c.Panel.UseWebSocket)

	c.Workshop.Workers = getInt("TALLER_WORKERS", c.Workshop.Workers)
	c.Workshop.UnitDuration = getDuration("TALLER_UNIT_DURATION", c.Workshop.UnitDuration)

	c.Storage.Driver = getString("TALLER_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getString("TALLER_STORAGE_PATH", c.Storage.Path)

	c.Log.Level = getString("TALLER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getString("TALLER_LOG_FORMAT", c.Log.Format)
}

func getString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
