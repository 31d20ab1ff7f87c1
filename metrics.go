package mqttv3

import (
	"time"
)

// MetricLabels represents key-value pairs for metric labels.
type MetricLabels map[string]string

// Metrics defines the interface for collecting metrics.
type Metrics interface {
	// Counter returns a counter metric.
	Counter(name string, labels MetricLabels) Counter

	// Gauge returns a gauge metric.
	Gauge(name string, labels MetricLabels) Gauge

	// Histogram returns a histogram metric.
	Histogram(name string, labels MetricLabels) Histogram
}

// Counter is a monotonically increasing counter.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()

	// Add adds the given value to the counter.
	Add(delta float64)

	// Value returns the current value.
	Value() float64
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	// Set sets the gauge to the given value.
	Set(value float64)

	// Inc increments the gauge by 1.
	Inc()

	// Dec decrements the gauge by 1.
	Dec()

	// Add adds the given value to the gauge.
	Add(delta float64)

	// Sub subtracts the given value from the gauge.
	Sub(delta float64)

	// Value returns the current value.
	Value() float64
}

// Histogram tracks the distribution of values.
type Histogram interface {
	// Observe records a value.
	Observe(value float64)

	// ObserveDuration records a duration in seconds.
	ObserveDuration(d time.Duration)

	// Count returns the number of observations.
	Count() uint64

	// Sum returns the sum of all observations.
	Sum() float64
}

// NoOpMetrics is a no-op implementation of Metrics.
type NoOpMetrics struct{}

// Counter returns a no-op counter.
func (n *NoOpMetrics) Counter(_ string, _ MetricLabels) Counter {
	return &noOpCounter{}
}

// Gauge returns a no-op gauge.
func (n *NoOpMetrics) Gauge(_ string, _ MetricLabels) Gauge {
	return &noOpGauge{}
}

// Histogram returns a no-op histogram.
func (n *NoOpMetrics) Histogram(_ string, _ MetricLabels) Histogram {
	return &noOpHistogram{}
}

type noOpCounter struct{}

func (n *noOpCounter) Inc()           {}
func (n *noOpCounter) Add(_ float64)  {}
func (n *noOpCounter) Value() float64 { return 0 }

type noOpGauge struct{}

func (n *noOpGauge) Set(_ float64)  {}
func (n *noOpGauge) Inc()           {}
func (n *noOpGauge) Dec()           {}
func (n *noOpGauge) Add(_ float64)  {}
func (n *noOpGauge) Sub(_ float64)  {}
func (n *noOpGauge) Value() float64 { return 0 }

type noOpHistogram struct{}

func (n *noOpHistogram) Observe(_ float64)               {}
func (n *noOpHistogram) ObserveDuration(_ time.Duration) {}
func (n *noOpHistogram) Count() uint64                   { return 0 }
func (n *noOpHistogram) Sum() float64                    { return 0 }

// Standard metric names for MQTT sessions.
const (
	// MetricSessionsStarted is the total number of session iterations
	// started.
	MetricSessionsStarted = "mqtt_sessions_started_total"

	// MetricSessionsCompleted is the total number of session iterations
	// completed cleanly.
	MetricSessionsCompleted = "mqtt_sessions_completed_total"

	// MetricSessionDuration is the duration of completed session
	// iterations.
	MetricSessionDuration = "mqtt_session_duration_seconds"

	// MetricConnectAttempts is the total number of connection attempts.
	MetricConnectAttempts = "mqtt_connect_attempts_total"

	// MetricPacketsSent is the total number of packets sent.
	MetricPacketsSent = "mqtt_packets_sent_total"

	// MetricPacketsReceived is the total number of packets received.
	MetricPacketsReceived = "mqtt_packets_received_total"

	// MetricBytesSent is the total bytes sent.
	MetricBytesSent = "mqtt_bytes_sent_total"

	// MetricBytesReceived is the total bytes received.
	MetricBytesReceived = "mqtt_bytes_received_total"

	// MetricRetryExhaustions is the total number of operations that ran
	// out of retry attempts.
	MetricRetryExhaustions = "mqtt_retry_exhaustions_total"

	// MetricShutdownTimeouts is the total number of graceful shutdowns
	// the broker never answered.
	MetricShutdownTimeouts = "mqtt_shutdown_timeouts_total"
)

// Standard metric labels.
const (
	// LabelPacketType is the packet type label.
	LabelPacketType = "packet_type"

	// LabelOperation is the retried operation label.
	LabelOperation = "operation"
)

// SessionMetrics provides convenience methods for the metrics a
// session records.
type SessionMetrics struct {
	metrics Metrics
}

// NewSessionMetrics creates a new SessionMetrics instance.
func NewSessionMetrics(m Metrics) *SessionMetrics {
	if m == nil {
		m = &NoOpMetrics{}
	}
	return &SessionMetrics{metrics: m}
}

// SessionStarted records a session iteration starting.
func (s *SessionMetrics) SessionStarted() {
	s.metrics.Counter(MetricSessionsStarted, nil).Inc()
}

// SessionCompleted records a session iteration completing cleanly.
func (s *SessionMetrics) SessionCompleted(d time.Duration) {
	s.metrics.Counter(MetricSessionsCompleted, nil).Inc()
	s.metrics.Histogram(MetricSessionDuration, nil).ObserveDuration(d)
}

// ConnectAttempt records a connection attempt.
func (s *SessionMetrics) ConnectAttempt() {
	s.metrics.Counter(MetricConnectAttempts, nil).Inc()
}

// PacketSent records a sent packet and its size.
func (s *SessionMetrics) PacketSent(packetType PacketType, bytes int) {
	labels := MetricLabels{LabelPacketType: packetType.String()}
	s.metrics.Counter(MetricPacketsSent, labels).Inc()
	s.metrics.Counter(MetricBytesSent, nil).Add(float64(bytes))
}

// PacketReceived records a received packet and its size.
func (s *SessionMetrics) PacketReceived(packetType PacketType, bytes int) {
	labels := MetricLabels{LabelPacketType: packetType.String()}
	s.metrics.Counter(MetricPacketsReceived, labels).Inc()
	s.metrics.Counter(MetricBytesReceived, nil).Add(float64(bytes))
}

// RetryExhausted records an operation running out of attempts.
func (s *SessionMetrics) RetryExhausted(operation string) {
	labels := MetricLabels{LabelOperation: operation}
	s.metrics.Counter(MetricRetryExhaustions, labels).Inc()
}

// ShutdownTimeout records a graceful shutdown the broker never
// answered.
func (s *SessionMetrics) ShutdownTimeout() {
	s.metrics.Counter(MetricShutdownTimeouts, nil).Inc()
}
