package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	ilog "github.com/amakane-hakari/appsample/internal/log"
	"github.com/amakane-hakari/appsample/internal/metrics"
)

type ctxKey int

const requestIDKey ctxKey = iota

const headerRequestID = "X-Request-ID"

// RequestIDFromContext はコンテキストからリクエストIDを取得します。
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// RequestIDMiddleware はリクエストIDを管理するミドルウェアです。
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(headerRequestID)
			if rid == "" {
				rid = genRequestID()
			}
			w.Header().Set(headerRequestID, rid)
			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RecoverMiddleware は panic を 500 のエラーレスポンスに変換するミドルウェアです。
func RecoverMiddleware(l ilog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					if l != nil {
						l.Error("panic recovered",
							"panic", rec,
							"path", r.URL.Path,
							"request_id", RequestIDFromContext(r.Context()),
							"stack", string(debug.Stack()),
						)
					}
					writeError(w, Internal("panic recovered"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Instrument はルートパターンとステータスごとにリクエストを数えるミドルウェアです。
func Instrument(m metrics.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			m.IncRequest(routePattern(r), sw.statusOrOK())
		})
	}
}

// routePattern はラベルの爆発を避けるため、実パスではなく chi のパターンを返します。
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func genRequestID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
