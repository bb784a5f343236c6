// Package main は 負荷試験ツールのエントリーポイントを提供します。
package main

import (
	"fmt"
	"os"

	"github.com/amakane-hakari/appsample/loadtest/attacker"
	"github.com/amakane-hakari/appsample/loadtest/config"
	"github.com/amakane-hakari/appsample/loadtest/scenario"
)

func main() {
	cfg := config.Load()

	fmt.Printf("[INFO] base-url=%s rate=%d duration=%s chaos-ratio=%.2f chaos-on-ratio=%.2f\n",
		cfg.BaseURL, cfg.Rate, cfg.Duration, cfg.ChaosRatio, cfg.ChaosOnRatio)

	gen := scenario.NewGenerator(cfg.BaseURL, cfg.ChaosRatio, cfg.ChaosOnRatio)

	r := attacker.Runner{
		Rate:     cfg.Rate,
		Duration: cfg.Duration,
		Timeout:  cfg.Timeout,
		Name:     cfg.Name,
		Output:   cfg.Output,
	}

	sum, err := r.Run(gen.Targeter())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[INFO] simulated errors (500) = %d\n", sum.StatusCodes["500"])
}
