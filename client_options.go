package mqttv3

import (
	"time"
)

// ExhaustionPolicy decides what happens to the session loop when the
// subscribe retry budget runs out.
type ExhaustionPolicy int

const (
	// ExhaustionFatal stops the loop and returns the retry error.
	ExhaustionFatal ExhaustionPolicy = iota

	// ExhaustionEndIteration abandons the current iteration and moves
	// on to the next one after the usual delay.
	ExhaustionEndIteration
)

// String returns a human-readable name for the policy.
func (p ExhaustionPolicy) String() string {
	switch p {
	case ExhaustionFatal:
		return "fatal"
	case ExhaustionEndIteration:
		return "end-iteration"
	default:
		return "unknown"
	}
}

// PublishHandler is called for every incoming PUBLISH. The message
// payload aliases the client's receive buffer and is only valid until
// the next packet is read; use Message.Clone to keep it longer.
type PublishHandler func(msg *Message)

// clientOptions holds configuration for a Client.
type clientOptions struct {
	// Connection settings
	clientID  string
	username  string
	password  []byte
	keepAlive uint16

	// Session shape
	topics        []string
	publishTopic  string
	payload       []byte
	publishRounds int

	// Timing
	keepAliveDelay    time.Duration
	receiveWindow     time.Duration
	connackTimeout    time.Duration
	iterationDelay    time.Duration
	shutdownPolls     int
	shutdownPollDelay time.Duration

	// Retry behaviour
	connectBackoff   BackoffPolicy
	subscribeBackoff BackoffPolicy
	exhaustionPolicy ExhaustionPolicy

	// Plumbing
	dialer     Dialer
	logger     Logger
	metrics    Metrics
	onPublish  PublishHandler
	bufferSize int
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() *clientOptions {
	return &clientOptions{
		keepAlive:         10,
		payload:           []byte("Hello Light Weight MQTT World!"),
		publishRounds:     5,
		receiveWindow:     time.Second,
		connackTimeout:    5 * time.Second,
		iterationDelay:    5 * time.Second,
		shutdownPolls:     3,
		shutdownPollDelay: 250 * time.Millisecond,
		connectBackoff:    DefaultBackoffPolicy(),
		subscribeBackoff:  DefaultBackoffPolicy(),
		exhaustionPolicy:  ExhaustionFatal,
		dialer:            &TCPDialer{Timeout: 10 * time.Second},
		bufferSize:        DefaultBufferSize,
	}
}

// Option configures a Client.
type Option func(*clientOptions)

// WithClientID sets the client identifier. If unset, a random one is
// generated.
func WithClientID(id string) Option {
	return func(o *clientOptions) {
		o.clientID = id
	}
}

// WithCredentials sets the username and password for authentication.
func WithCredentials(username, password string) Option {
	return func(o *clientOptions) {
		o.username = username
		o.password = []byte(password)
	}
}

// WithKeepAlive sets the keep-alive interval in seconds.
func WithKeepAlive(seconds uint16) Option {
	return func(o *clientOptions) {
		o.keepAlive = seconds
	}
}

// WithTopics sets the topic filters the session subscribes to. If
// unset, a single filter derived from the client identifier is used.
func WithTopics(filters ...string) Option {
	return func(o *clientOptions) {
		o.topics = filters
	}
}

// WithPublishTopic sets the topic messages are published to. If unset,
// the first subscribed filter is used.
func WithPublishTopic(topic string) Option {
	return func(o *clientOptions) {
		o.publishTopic = topic
	}
}

// WithPayload sets the payload of every outgoing PUBLISH.
func WithPayload(payload []byte) Option {
	return func(o *clientOptions) {
		o.payload = payload
	}
}

// WithPublishRounds sets how many publish/ping rounds each session
// iteration runs.
func WithPublishRounds(n int) Option {
	return func(o *clientOptions) {
		o.publishRounds = n
	}
}

// WithKeepAliveDelay sets the pause between a publish and the next
// ping inside a round. If unset, a quarter of the keep-alive interval
// is used.
func WithKeepAliveDelay(d time.Duration) Option {
	return func(o *clientOptions) {
		o.keepAliveDelay = d
	}
}

// WithReceiveWindow sets how long each receive poll waits for an
// incoming packet to start arriving.
func WithReceiveWindow(d time.Duration) Option {
	return func(o *clientOptions) {
		o.receiveWindow = d
	}
}

// WithConnackTimeout sets how long the client waits for the CONNACK
// after sending CONNECT.
func WithConnackTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.connackTimeout = d
	}
}

// WithIterationDelay sets the pause between session iterations.
func WithIterationDelay(d time.Duration) Option {
	return func(o *clientOptions) {
		o.iterationDelay = d
	}
}

// WithShutdownPolls sets how many times the client polls for the
// broker's half of the connection teardown, and the delay between
// polls.
func WithShutdownPolls(polls int, delay time.Duration) Option {
	return func(o *clientOptions) {
		o.shutdownPolls = polls
		o.shutdownPollDelay = delay
	}
}

// WithConnectBackoff sets the retry policy for connection attempts.
func WithConnectBackoff(policy BackoffPolicy) Option {
	return func(o *clientOptions) {
		o.connectBackoff = policy
	}
}

// WithSubscribeBackoff sets the retry policy for subscribe attempts.
func WithSubscribeBackoff(policy BackoffPolicy) Option {
	return func(o *clientOptions) {
		o.subscribeBackoff = policy
	}
}

// WithSubscribeExhaustionPolicy decides whether running out of
// subscribe retries ends the loop or only the current iteration.
func WithSubscribeExhaustionPolicy(policy ExhaustionPolicy) Option {
	return func(o *clientOptions) {
		o.exhaustionPolicy = policy
	}
}

// WithDialer sets the transport used to reach the broker.
func WithDialer(d Dialer) Option {
	return func(o *clientOptions) {
		o.dialer = d
	}
}

// WithLogger sets the logger. If unset, logging is disabled.
func WithLogger(l Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithMetrics sets the metrics backend. If unset, metrics are
// discarded.
func WithMetrics(m Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithPublishHandler sets a callback invoked for every incoming
// PUBLISH after the built-in logging.
func WithPublishHandler(h PublishHandler) Option {
	return func(o *clientOptions) {
		o.onPublish = h
	}
}

// WithBufferSize sets the capacity of the shared packet buffer. Every
// packet sent or received must fit in it.
func WithBufferSize(n int) Option {
	return func(o *clientOptions) {
		o.bufferSize = n
	}
}
