package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prom は Prometheus を使ったメトリクス実装です。
type Prom struct {
	reg         *prometheus.Registry
	requests    *prometheus.CounterVec
	chaosActive prometheus.Gauge
	toggles     *prometheus.CounterVec
}

// NewProm は Prometheus を使ったメトリクス実装を初期化します。
// レジストリはインスタンスごとに持つため、何度呼んでも衝突しません。
func NewProm(namespace string) *Prom {
	p := &Prom{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		chaosActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chaos_active",
			Help:      "1 while chaos mode is on",
		}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chaos_toggles_total",
			Help:      "Number of chaos start/stop calls",
		}, []string{"action"}),
	}

	p.reg.MustRegister(
		p.requests, p.chaosActive, p.toggles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry は内部のレジストリを返します。
func (p *Prom) Registry() *prometheus.Registry { return p.reg }

// Handler は /metrics 用のハンドラを返します。
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

// IncRequest はルートとステータスごとのリクエスト数を加算します。
func (p *Prom) IncRequest(route string, status int) {
	p.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// SetChaos はカオスフラグの状態をゲージに反映します。
func (p *Prom) SetChaos(on bool) {
	if on {
		p.chaosActive.Set(1)
		return
	}
	p.chaosActive.Set(0)
}

// IncChaosToggle はカオスの開始/停止回数を加算します。
func (p *Prom) IncChaosToggle(on bool) {
	action := "stop"
	if on {
		action = "start"
	}
	p.toggles.WithLabelValues(action).Inc()
}
