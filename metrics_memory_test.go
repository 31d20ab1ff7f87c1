package mqttv3

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryMetricsCounter(t *testing.T) {
	t.Run("inc and add", func(t *testing.T) {
		m := NewMemoryMetrics()

		c := m.Counter("requests_total", nil)
		c.Inc()
		c.Inc()
		c.Add(3)

		assert.Equal(t, float64(5), c.Value())
	})

	t.Run("same name returns same counter", func(t *testing.T) {
		m := NewMemoryMetrics()

		first := m.Counter("requests_total", nil)
		first.Inc()

		second := m.Counter("requests_total", nil)
		second.Inc()

		assert.Equal(t, float64(2), first.Value())
		assert.Same(t, first, second)
	})

	t.Run("different labels are separate series", func(t *testing.T) {
		m := NewMemoryMetrics()

		m.Counter("packets_total", MetricLabels{"type": "PUBLISH"}).Inc()
		m.Counter("packets_total", MetricLabels{"type": "PINGREQ"}).Inc()
		m.Counter("packets_total", MetricLabels{"type": "PUBLISH"}).Inc()

		assert.Equal(t, float64(2), m.CounterValue("packets_total", MetricLabels{"type": "PUBLISH"}))
		assert.Equal(t, float64(1), m.CounterValue("packets_total", MetricLabels{"type": "PINGREQ"}))
	})

	t.Run("missing series reads zero", func(t *testing.T) {
		m := NewMemoryMetrics()

		assert.Zero(t, m.CounterValue("never_written", nil))
	})
}

func TestMemoryMetricsGauge(t *testing.T) {
	t.Run("set inc dec add sub", func(t *testing.T) {
		m := NewMemoryMetrics()

		g := m.Gauge("in_flight", nil)
		g.Set(10)
		g.Inc()
		g.Dec()
		g.Add(5)
		g.Sub(3)

		assert.Equal(t, float64(12), g.Value())
	})

	t.Run("gauge can go negative", func(t *testing.T) {
		m := NewMemoryMetrics()

		g := m.Gauge("drift", nil)
		g.Sub(4)

		assert.Equal(t, float64(-4), g.Value())
	})

	t.Run("missing series reads zero", func(t *testing.T) {
		m := NewMemoryMetrics()

		assert.Zero(t, m.GaugeValue("never_written", nil))
	})
}

func TestMemoryMetricsHistogram(t *testing.T) {
	t.Run("observe tracks count and sum", func(t *testing.T) {
		m := NewMemoryMetrics()

		h := m.Histogram("latency_seconds", nil)
		h.Observe(0.1)
		h.Observe(0.2)
		h.Observe(0.3)

		assert.Equal(t, uint64(3), h.Count())
		assert.InDelta(t, 0.6, h.Sum(), 0.0001)
	})

	t.Run("observe duration converts to seconds", func(t *testing.T) {
		m := NewMemoryMetrics()

		h := m.Histogram("latency_seconds", nil)
		h.ObserveDuration(500 * time.Millisecond)

		assert.Equal(t, uint64(1), h.Count())
		assert.InDelta(t, 0.5, h.Sum(), 0.0001)
	})

	t.Run("same name returns same histogram", func(t *testing.T) {
		m := NewMemoryMetrics()

		first := m.Histogram("latency_seconds", nil)
		first.Observe(1)

		second := m.Histogram("latency_seconds", nil)
		second.Observe(1)

		assert.Equal(t, uint64(2), first.Count())
	})
}

func TestLabelsKey(t *testing.T) {
	t.Run("no labels returns bare name", func(t *testing.T) {
		assert.Equal(t, "metric", labelsKey("metric", nil))
		assert.Equal(t, "metric", labelsKey("metric", MetricLabels{}))
	})

	t.Run("label order does not matter", func(t *testing.T) {
		a := labelsKey("metric", MetricLabels{"x": "1", "y": "2", "z": "3"})
		b := labelsKey("metric", MetricLabels{"z": "3", "x": "1", "y": "2"})

		assert.Equal(t, a, b)
	})

	t.Run("different values are different keys", func(t *testing.T) {
		a := labelsKey("metric", MetricLabels{"type": "PUBLISH"})
		b := labelsKey("metric", MetricLabels{"type": "SUBACK"})

		assert.NotEqual(t, a, b)
	})
}

func TestMemoryMetricsConcurrency(t *testing.T) {
	m := NewMemoryMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Counter("concurrent_total", nil).Inc()
				m.Gauge("concurrent_gauge", nil).Add(1)
				m.Histogram("concurrent_hist", nil).Observe(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(1000), m.CounterValue("concurrent_total", nil))
	assert.Equal(t, float64(1000), m.GaugeValue("concurrent_gauge", nil))
	assert.Equal(t, uint64(1000), m.Histogram("concurrent_hist", nil).Count())
}

func BenchmarkMemoryMetricsCounter(b *testing.B) {
	m := NewMemoryMetrics()
	labels := MetricLabels{"type": "PUBLISH"}

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		m.Counter("packets_total", labels).Inc()
	}
}
