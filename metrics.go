package lumimap

import (
	"time"

	"github.com/bodgit/lumimap/colormap"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	loads   *prometheus.CounterVec
	mapping *prometheus.HistogramVec
}

func newMetrics() *metrics {
	return &metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumimap_loads_total",
			Help: "Number of raster loads by result.",
		}, []string{"result"}),
		mapping: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "lumimap_mapping_seconds",
			Help: "Duration of color-mapping passes.",
		}, []string{"encoding"}),
	}
}

// register adds the collectors to reg, adopting any identical collectors
// already registered by another session.
func (m *metrics) register(reg prometheus.Registerer) error {
	if err := reg.Register(m.loads); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		m.loads = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.mapping); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		m.mapping = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return nil
}

func (m *metrics) load(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.loads.WithLabelValues(result).Inc()
}

func (m *metrics) observe(k colormap.Kind, start time.Time) {
	m.mapping.WithLabelValues(k.String()).Observe(time.Since(start).Seconds())
}
