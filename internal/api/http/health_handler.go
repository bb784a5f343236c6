package http

import "net/http"

// healthHandler はカオス状態に関係なく空ボディの 200 を返します。
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
