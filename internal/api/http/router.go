package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amakane-hakari/appsample/internal/app"
	ilog "github.com/amakane-hakari/appsample/internal/log"
	"github.com/amakane-hakari/appsample/internal/metrics"
)

type routerConfig struct {
	logger         ilog.Logger
	metrics        metrics.Interface
	metricsHandler http.Handler
}

// Option はルータのオプションを設定する関数です。
type Option func(*routerConfig)

// WithLogger はアクセスログと panic ログの出力先を設定します。
func WithLogger(l ilog.Logger) Option {
	return func(c *routerConfig) { c.logger = l }
}

// WithMetrics はメトリクスの記録先を設定します。
func WithMetrics(m metrics.Interface) Option {
	return func(c *routerConfig) { c.metrics = m }
}

// WithMetricsHandler は GET /metrics に h をマウントします。
func WithMetricsHandler(h http.Handler) Option {
	return func(c *routerConfig) { c.metricsHandler = h }
}

// NewRouter は st を公開するルータを作成します。
func NewRouter(st *app.State, opts ...Option) http.Handler {
	cfg := routerConfig{metrics: metrics.Noop{}}
	for _, o := range opts {
		o(&cfg)
	}

	r := chi.NewRouter()
	// Recover を最内側に置き、panic したリクエストもログと計測の対象にする
	r.Use(RequestIDMiddleware())
	r.Use(AccessLog(cfg.logger))
	r.Use(Instrument(cfg.metrics))
	r.Use(RecoverMiddleware(cfg.logger))

	r.Get("/healthz", healthHandler)
	h := &appHandler{st: st, m: cfg.metrics}
	h.mount(r)

	if cfg.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metricsHandler)
	}
	return r
}
