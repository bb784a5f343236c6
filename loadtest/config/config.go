package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	BaseURL      string
	Rate         int
	Duration     time.Duration
	ChaosRatio   float64
	ChaosOnRatio float64
	Output       string
	Timeout      time.Duration
	Name         string
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseFloatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func parseIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load は環境変数 (LT_*) を既定値としてフラグを解析します。
func Load() *Config {
	return LoadArgs(flag.CommandLine, os.Args[1:])
}

// LoadArgs は fs に対して args を解析します。
func LoadArgs(fs *flag.FlagSet, args []string) *Config {
	var c Config

	defaultBase := envOr("LT_BASE_URL", "http://localhost:3000")
	defaultRate := parseIntEnv("LT_RATE", 100)
	defaultDuration := envOr("LT_DURATION", "30s")
	defaultChaos := parseFloatEnv("LT_CHAOS_RATIO", 0.0)
	defaultChaosOn := parseFloatEnv("LT_CHAOS_ON_RATIO", 0.5)
	defaultOutput := envOr("LT_OUTPUT", "vegeta_results.bin")
	defaultTimeout := envOr("LT_TIMEOUT", "5s")
	defaultName := envOr("LT_NAME", "version")

	dur, _ := time.ParseDuration(defaultDuration)
	to, _ := time.ParseDuration(defaultTimeout)

	fs.StringVar(&c.BaseURL, "base-url", defaultBase, "Base URL of the sample app")
	fs.IntVar(&c.Rate, "rate", defaultRate, "Requests per second")
	fs.DurationVar(&c.Duration, "duration", dur, "Duration of the load test")
	fs.Float64Var(&c.ChaosRatio, "chaos-ratio", defaultChaos, "Ratio of chaos toggle requests")
	fs.Float64Var(&c.ChaosOnRatio, "chaos-on-ratio", defaultChaosOn, "Ratio of toggles that start chaos")
	fs.StringVar(&c.Output, "output", defaultOutput, "Output file for vegeta results")
	fs.DurationVar(&c.Timeout, "timeout", to, "Request timeout")
	fs.StringVar(&c.Name, "name", defaultName, "Name of the load test")

	_ = fs.Parse(args)
	return &c
}
