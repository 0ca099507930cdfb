// Package httpapi exposes the dashboard and collector HTTP surface.
package httpapi

import "net/http"

// Handlers bundles the route handlers for mux registration.
type Handlers struct {
	Summary       http.Handler
	Export        http.Handler
	Ingest        http.Handler
	ManualInput   http.Handler
	ScoutMessages http.Handler
	Goals         http.Handler
	Hires         http.Handler
}

// NewMux registers every route on a fresh ServeMux.
func NewMux(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/metrics/summary", h.Summary)
	mux.Handle("/metrics/export", h.Export)
	mux.Handle("/metrics/ingest", h.Ingest)
	mux.Handle("/metrics/manual-input", h.ManualInput)
	mux.Handle("/metrics/scout-messages", h.ScoutMessages)
	mux.Handle("/goals", h.Goals)
	mux.Handle("/hires", h.Hires)
	mux.Handle("/hires/", h.Hires)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}
