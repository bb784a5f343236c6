package metrics

import (
	"sync/atomic"
)

// Interface はメトリクス更新用抽象
type Interface interface {
	IncRequest(route string, status int)
	SetChaos(on bool)
	IncChaosToggle(on bool)
}

// Noop は何もしないメトリクス実装
type Noop struct{}

// IncRequest は何もしないメトリクス実装
func (Noop) IncRequest(_ string, _ int) {}

// SetChaos は何もしないメトリクス実装
func (Noop) SetChaos(_ bool) {}

// IncChaosToggle は何もしないメトリクス実装
func (Noop) IncChaosToggle(_ bool) {}

// Simple はシンプルなメトリクス実装です。
type Simple struct {
	Requests     atomic.Uint64
	ServerErrors atomic.Uint64
	ChaosActive  atomic.Bool
	ChaosStarted atomic.Uint64
	ChaosStopped atomic.Uint64
}

// NewSimple は新しい Simple メトリクスを作成します。
func NewSimple() *Simple { return &Simple{} }

// IncRequest はリクエスト数を加算します。5xx はサーバエラーとしても数えます。
func (m *Simple) IncRequest(_ string, status int) {
	m.Requests.Add(1)
	if status >= 500 {
		m.ServerErrors.Add(1)
	}
}

// SetChaos はカオスフラグの状態を記録します。
func (m *Simple) SetChaos(on bool) { m.ChaosActive.Store(on) }

// IncChaosToggle はカオスの開始/停止回数を加算します。
func (m *Simple) IncChaosToggle(on bool) {
	if on {
		m.ChaosStarted.Add(1)
		return
	}
	m.ChaosStopped.Add(1)
}
