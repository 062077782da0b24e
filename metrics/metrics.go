// Package metrics exports container activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danpasecinic/bobbin"
)

const namespace = "bobbin"

// Collector counts bean registrations and creations. It is itself a
// prometheus.Collector and is registered by NewCollector.
type Collector struct {
	creations  *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	registered prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		creations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bean_creations_total",
			Help:      "Beans built by the container, by bean and result.",
		}, []string{"bean", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bean_creation_seconds",
			Help:      "Time spent building a bean, dependencies included.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"bean"}),
		registered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "beans_registered_total",
			Help:      "Definitions and instances registered with the container.",
		}),
	}

	if reg != nil {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.creations.Describe(ch)
	c.duration.Describe(ch)
	c.registered.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.creations.Collect(ch)
	c.duration.Collect(ch)
	c.registered.Collect(ch)
}

// ObserveCreate matches bobbin.CreateHook.
func (c *Collector) ObserveCreate(name string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.creations.WithLabelValues(name, result).Inc()
	c.duration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveRegister matches bobbin.RegisterHook.
func (c *Collector) ObserveRegister(string) {
	c.registered.Inc()
}

// Options wires the collector into a container.
func (c *Collector) Options() []bobbin.Option {
	return []bobbin.Option{
		bobbin.WithCreateObserver(c.ObserveCreate),
		bobbin.WithRegisterObserver(c.ObserveRegister),
	}
}
