package scenario

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// Generator は 負荷試験のターゲットを生成する構造体です。
// 基本は GET /version で、ChaosRatio の割合でカオスのトグルを混ぜます。
type Generator struct {
	BaseURL      string
	ChaosRatio   float64
	ChaosOnRatio float64

	rnd *rand.Rand
	mu  sync.Mutex
}

// NewGenerator は 指定されたパラメータに基づいて新しい Generator を作成します。
func NewGenerator(base string, chaosRatio, chaosOnRatio float64) *Generator {
	return NewGeneratorWithSource(base, chaosRatio, chaosOnRatio, rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource は乱数源を指定して Generator を作成します。
func NewGeneratorWithSource(base string, chaosRatio, chaosOnRatio float64, src rand.Source) *Generator {
	return &Generator{
		BaseURL:      base,
		ChaosRatio:   clamp(chaosRatio, 0, 1),
		ChaosOnRatio: clamp(chaosOnRatio, 0, 1),
		rnd:          rand.New(src),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Targeter は vegeta.Targeter インターフェースを実装し、負荷試験のターゲットを生成します。
func (g *Generator) Targeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		g.mu.Lock()
		defer g.mu.Unlock()

		t.Body = nil
		t.Header = nil

		if g.ChaosRatio > 0 && g.rnd.Float64() < g.ChaosRatio {
			t.Method = http.MethodPost
			if g.rnd.Float64() < g.ChaosOnRatio {
				t.URL = g.BaseURL + "/chaos/start"
			} else {
				t.URL = g.BaseURL + "/chaos/stop"
			}
			return nil
		}

		t.Method = http.MethodGet
		t.URL = g.BaseURL + "/version"
		return nil
	}
}
