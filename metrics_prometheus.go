package mqttv3

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// PrometheusMetrics implements Metrics on top of a Prometheus
// registry. Within one instance a metric name must always be used with
// the same set of label keys, which holds for every metric the client
// records.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics creates a Metrics implementation registering on
// reg. A nil reg uses the default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &PrometheusMetrics{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func labelNames(labels MetricLabels) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Counter returns a counter metric.
func (p *PrometheusMetrics) Counter(name string, labels MetricLabels) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: name},
			labelNames(labels),
		)

		if err := p.registerer.Register(vec); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return &noOpCounter{}
			}
			vec = are.ExistingCollector.(*prometheus.CounterVec)
		}

		p.counters[name] = vec
	}

	return &promCounter{c: vec.With(prometheus.Labels(labels))}
}

// Gauge returns a gauge metric.
func (p *PrometheusMetrics) Gauge(name string, labels MetricLabels) Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: name},
			labelNames(labels),
		)

		if err := p.registerer.Register(vec); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return &noOpGauge{}
			}
			vec = are.ExistingCollector.(*prometheus.GaugeVec)
		}

		p.gauges[name] = vec
	}

	return &promGauge{g: vec.With(prometheus.Labels(labels))}
}

// Histogram returns a histogram metric.
func (p *PrometheusMetrics) Histogram(name string, labels MetricLabels) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: name},
			labelNames(labels),
		)

		if err := p.registerer.Register(vec); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return &noOpHistogram{}
			}
			vec = are.ExistingCollector.(*prometheus.HistogramVec)
		}

		p.histograms[name] = vec
	}

	return &promHistogram{o: vec.With(prometheus.Labels(labels))}
}

type promCounter struct {
	c prometheus.Counter
}

func (c *promCounter) Inc() {
	c.c.Inc()
}

func (c *promCounter) Add(delta float64) {
	c.c.Add(delta)
}

func (c *promCounter) Value() float64 {
	var m dto.Metric
	if err := c.c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

type promGauge struct {
	g prometheus.Gauge
}

func (g *promGauge) Set(value float64) {
	g.g.Set(value)
}

func (g *promGauge) Inc() {
	g.g.Inc()
}

func (g *promGauge) Dec() {
	g.g.Dec()
}

func (g *promGauge) Add(delta float64) {
	g.g.Add(delta)
}

func (g *promGauge) Sub(delta float64) {
	g.g.Sub(delta)
}

func (g *promGauge) Value() float64 {
	var m dto.Metric
	if err := g.g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

type promHistogram struct {
	o prometheus.Observer
}

func (h *promHistogram) Observe(value float64) {
	h.o.Observe(value)
}

func (h *promHistogram) ObserveDuration(d time.Duration) {
	h.o.Observe(d.Seconds())
}

func (h *promHistogram) Count() uint64 {
	var m dto.Metric
	pm, ok := h.o.(prometheus.Metric)
	if !ok {
		return 0
	}
	if err := pm.Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func (h *promHistogram) Sum() float64 {
	var m dto.Metric
	pm, ok := h.o.(prometheus.Metric)
	if !ok {
		return 0
	}
	if err := pm.Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleSum()
}
