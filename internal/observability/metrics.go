package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/modwasm/modwasm/internal/wasm/binary"
)

// MetricsObserver implements binary.Observer, exporting decode lifecycle
// events as Prometheus series and, if log is non-nil, as structured log
// lines at debug level.
type MetricsObserver struct {
	log *logrus.Entry

	sectionBytes *prometheus.CounterVec
	decodeFailed prometheus.Counter
}

// NewMetricsObserver registers its series on reg and returns the observer.
// When an earlier observer already registered them on reg, the new one
// reuses those series, so one registry can serve a batch of decodes.
// Pass a nil log to skip log lines and keep only the metrics.
func NewMetricsObserver(reg prometheus.Registerer, log *logrus.Entry) *MetricsObserver {
	m := &MetricsObserver{
		log: log,
		sectionBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modwasm",
			Name:      "section_bytes_total",
			Help:      "Declared byte size of decoded sections, by section ID.",
		}, []string{"section"}),
		decodeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "modwasm",
			Name:      "decode_failures_total",
			Help:      "Number of module decodes that ended in a fatal error.",
		}),
	}
	if err := reg.Register(m.sectionBytes); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		m.sectionBytes = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.decodeFailed); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		m.decodeFailed = are.ExistingCollector.(prometheus.Counter)
	}
	return m
}

func (m *MetricsObserver) SectionDecoded(id binary.SectionID, declaredSize uint32) {
	m.sectionBytes.WithLabelValues(id.String()).Add(float64(declaredSize))
	if m.log != nil {
		m.log.WithFields(logrus.Fields{"section": id.String(), "size": declaredSize}).Debug("section decoded")
	}
}

func (m *MetricsObserver) DecodeFailed(err error) {
	m.decodeFailed.Inc()
	if m.log != nil {
		m.log.WithError(err).Debug("decode failed")
	}
}
