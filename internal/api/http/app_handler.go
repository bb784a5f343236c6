package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amakane-hakari/appsample/internal/app"
	"github.com/amakane-hakari/appsample/internal/metrics"
)

const (
	headerAppPool   = "X-App-Pool"
	headerReleaseID = "X-Release-Id"
)

type appHandler struct {
	st *app.State
	m  metrics.Interface
}

func (h *appHandler) mount(r chi.Router) {
	r.Method(http.MethodGet, "/version", HandlerFunc(h.version))
	r.Route("/chaos", func(r chi.Router) {
		r.Method(http.MethodPost, "/start", HandlerFunc(h.chaosStart))
		r.Method(http.MethodPost, "/stop", HandlerFunc(h.chaosStop))
	})
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *appHandler) setIdentityHeaders(w http.ResponseWriter) {
	id := h.st.Identity()
	w.Header().Set(headerAppPool, id.Pool)
	w.Header().Set(headerReleaseID, id.Release)
}

func (h *appHandler) version(w http.ResponseWriter, _ *http.Request) error {
	if h.st.Chaos() {
		return app.ErrSimulated
	}
	h.setIdentityHeaders(w)
	writeJSON(w, http.StatusOK, h.st.Identity())
	return nil
}

func (h *appHandler) chaosStart(w http.ResponseWriter, _ *http.Request) error {
	h.st.ChaosOn()
	h.m.IncChaosToggle(true)
	h.m.SetChaos(true)
	h.setIdentityHeaders(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "chaos started"})
	return nil
}

func (h *appHandler) chaosStop(w http.ResponseWriter, _ *http.Request) error {
	h.st.ChaosOff()
	h.m.IncChaosToggle(false)
	h.m.SetChaos(false)
	h.setIdentityHeaders(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "chaos stopped"})
	return nil
}
