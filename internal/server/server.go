// Package server assembles the HTTP handler tree: routes plus middleware.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/bookmarks/internal/handler"
	"github.com/mmynk/bookmarks/internal/middleware"
	"github.com/mmynk/bookmarks/internal/service"
	"github.com/mmynk/bookmarks/internal/storage"
)

// Options toggles optional endpoints.
type Options struct {
	// Metrics enables request metrics and GET /metrics.
	Metrics bool
}

// New returns the root handler serving the bookmark API over store.
func New(store storage.Store, logger *slog.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()

	svc := service.NewBookmarkService(store, store, logger.With("component", "service"))
	handler.NewBookmarkHandler(svc, logger.With("component", "handler")).Register(mux)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})

	var root http.Handler = mux
	if opts.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		root = middleware.NewMetrics(reg).Middleware(root)
	}

	root = middleware.CORS(root)
	root = middleware.Logging(logger.With("component", "http"))(root)
	return middleware.RequestID(root)
}
