package main

import (
	"os"

	"github.com/modwasm/modwasm/internal/analysis"
	"github.com/modwasm/modwasm/internal/observability"
	"github.com/modwasm/modwasm/internal/wasm"
	"github.com/modwasm/modwasm/internal/wasm/binary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// decodeFile loads and decodes one module, wiring a logging/metrics
// observer when either is requested. The returned context holds the
// globals array the decode populated, which reset round-trip checks need.
func decodeFile(path string, log *logrus.Logger, reg prometheus.Registerer) (*wasm.Module, *analysis.Context, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	opts := binary.Options{RetainCustomSections: true}
	if reg == nil && log.IsLevelEnabled(logrus.DebugLevel) {
		// Debug logging without --metrics: the observer's series go to a
		// private registry that nothing serves.
		reg = prometheus.NewRegistry()
	}
	if reg != nil {
		opts.Observer = observability.NewMetricsObserver(reg, log.WithField("module", path))
	}

	ctx := analysis.NewContext()
	mod, err := binary.DecodeModule(buf, ctx, analysis.NodeFactory{}, opts)
	return mod, ctx, err
}
