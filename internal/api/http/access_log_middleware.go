package http

import (
	"net/http"
	"time"

	ilog "github.com/amakane-hakari/appsample/internal/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// ヘッダもボディも書かれなかった場合 net/http は 200 を返す
func (w *statusRecorder) statusOrOK() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// AccessLog はリクエストのアクセスログを記録するミドルウェアです。
func AccessLog(l ilog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			sw := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			l.Info("access.log",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.statusOrOK(),
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", sw.size,
				"remote", remoteIP(r),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

func remoteIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		return ip
	}
	return r.RemoteAddr
}
