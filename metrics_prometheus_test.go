package mqttv3

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetricsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	c := pm.Counter("mqtt_test_total", MetricLabels{"type": "PUBLISH"})
	c.Inc()
	c.Add(2)

	assert.Equal(t, float64(3), c.Value())

	t.Run("labels are separate series", func(t *testing.T) {
		other := pm.Counter("mqtt_test_total", MetricLabels{"type": "PINGREQ"})
		other.Inc()

		assert.Equal(t, float64(1), other.Value())
		assert.Equal(t, float64(3), c.Value())
	})

	t.Run("registered with the registry", func(t *testing.T) {
		families, err := reg.Gather()
		require.NoError(t, err)

		var found bool
		for _, mf := range families {
			if mf.GetName() == "mqtt_test_total" {
				found = true
				assert.Len(t, mf.GetMetric(), 2)
			}
		}
		assert.True(t, found)
	})
}

func TestPrometheusMetricsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	g := pm.Gauge("mqtt_test_gauge", nil)
	g.Set(10)
	g.Inc()
	g.Dec()
	g.Add(5)
	g.Sub(3)

	assert.Equal(t, float64(12), g.Value())
}

func TestPrometheusMetricsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	h := pm.Histogram("mqtt_test_duration_seconds", nil)
	h.Observe(0.25)
	h.ObserveDuration(250 * time.Millisecond)

	assert.Equal(t, uint64(2), h.Count())
	assert.InDelta(t, 0.5, h.Sum(), 0.0001)
}

func TestPrometheusMetricsSharedRegistry(t *testing.T) {
	// Two instances over one registry recover each other's collectors
	// instead of failing registration.
	reg := prometheus.NewRegistry()

	first := NewPrometheusMetrics(reg)
	second := NewPrometheusMetrics(reg)

	first.Counter("mqtt_shared_total", nil).Inc()
	second.Counter("mqtt_shared_total", nil).Inc()

	assert.Equal(t, float64(2), first.Counter("mqtt_shared_total", nil).Value())
	assert.Equal(t, float64(2), second.Counter("mqtt_shared_total", nil).Value())
}

func TestPrometheusMetricsDefaultRegisterer(t *testing.T) {
	pm := NewPrometheusMetrics(nil)
	assert.NotNil(t, pm)
	assert.Equal(t, prometheus.DefaultRegisterer, pm.registerer)
}

func TestPrometheusMetricsWithSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := NewSessionMetrics(NewPrometheusMetrics(reg))

	sm.SessionStarted()
	sm.PacketSent(PacketPUBLISH, 9)
	sm.PacketReceived(PacketSUBACK, 5)
	sm.SessionCompleted(time.Second)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	assert.True(t, names[MetricSessionsStarted])
	assert.True(t, names[MetricSessionsCompleted])
	assert.True(t, names[MetricSessionDuration])
	assert.True(t, names[MetricPacketsSent])
	assert.True(t, names[MetricPacketsReceived])
	assert.True(t, names[MetricBytesSent])
	assert.True(t, names[MetricBytesReceived])
}
