package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amakane-hakari/appsample/internal/app"
)

// AppError はアプリケーション固有のエラーを表します。
type AppError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Meta    any    `json:"meta,omitempty"`
}

const (
	// CodeInternalError は 500 Internal Server Error エラーを表します。
	CodeInternalError = "INTERNAL_ERROR"
	// CodeTimeout は タイムアウトによる 408 Request Timeout エラーを表します。
	CodeTimeout = "TIMEOUT"
	// CodeCanceled は キャンセルによる 408 Request Timeout エラーを表します。
	CodeCanceled = "CANCELED"
)

func (e *AppError) Error() string { return e.Code + ": " + e.Message }

// NewAppError は新しい AppError を作成します。
func NewAppError(status int, code, message string, meta any) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Meta:    meta,
	}
}

// Internal は 500 Internal Server Error エラーを表す AppError を作成します。
func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, msg, nil)
}

// FromStdError は標準の error を AppError に変換します。
func FromStdError(err error) *AppError {
	if err == nil {
		return nil
	}

	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, context.Canceled):
		return NewAppError(http.StatusRequestTimeout, CodeCanceled, "request canceled", nil)
	case errors.Is(err, context.DeadlineExceeded):
		return NewAppError(http.StatusRequestTimeout, CodeTimeout, "request timeout", nil)
	default:
		return Internal("unexpected error")
	}
}

// HandlerFunc はエラーを返せる HTTP ハンドラです。
// 返されたエラーは writeError でレスポンスに変換されます。
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		writeError(w, err)
	}
}

type errorEnvelope struct {
	Err *AppError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("unexpected error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, err error) {
	// カオスモードのエラーは呼び出し側が検証する固定の平文
	if errors.Is(err, app.ErrSimulated) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(app.ErrSimulated.Error()))
		return
	}
	ae := FromStdError(err)
	writeJSON(w, ae.Status, errorEnvelope{Err: ae})
}
