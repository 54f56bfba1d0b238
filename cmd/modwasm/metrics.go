package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetrics starts a /metrics endpoint on addr if addr is non-empty and
// returns the registry to pass into decodeFile, plus a shutdown func. When
// addr is empty it returns a nil registry and a no-op shutdown, so callers
// don't need a separate branch for "metrics disabled".
func serveMetrics(addr string) (prometheus.Registerer, func()) {
	if addr == "" {
		return nil, func() {}
	}
	reg := prometheus.NewRegistry()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return reg, func() { _ = srv.Close() }
}
