// Package config は環境変数からサーバ設定を読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultIdentity = "unknown"

// Config はサーバの設定を表します。
type Config struct {
	Port              int
	Pool              string
	Release           string
	LogLevel          string
	LogFormat         string
	MetricsEnabled    bool
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Addr は http.Server に渡すリッスンアドレスを返します。
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePortEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return 0, fmt.Errorf("%s: invalid port %q", key, v)
	}
	return p, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q", key, v)
	}
	return b, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func oneOf(key, v string, allowed ...string) (string, error) {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("%s: unsupported value %q", key, v)
}

// Load は環境変数から Config を作成します。
// 不正な値があればその変数名を含むエラーを返します。
func Load() (*Config, error) {
	c := &Config{
		Pool:    envOr("APP_POOL", defaultIdentity),
		Release: envOr("RELEASE_ID", defaultIdentity),
	}

	var err error
	if c.Port, err = parsePortEnv("PORT", 3000); err != nil {
		return nil, err
	}
	if c.LogLevel, err = oneOf("LOG_LEVEL", envOr("LOG_LEVEL", "info"), "debug", "info", "warn", "error"); err != nil {
		return nil, err
	}
	if c.LogFormat, err = oneOf("LOG_FORMAT", envOr("LOG_FORMAT", "text"), "text", "json"); err != nil {
		return nil, err
	}
	if c.MetricsEnabled, err = parseBoolEnv("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	if c.ReadHeaderTimeout, err = parseDurationEnv("READ_HEADER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if c.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	return c, nil
}
