package mqttv3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := defaultOptions()

	assert.Equal(t, uint16(10), opts.keepAlive)
	assert.Equal(t, []byte("Hello Light Weight MQTT World!"), opts.payload)
	assert.Equal(t, 5, opts.publishRounds)
	assert.Equal(t, time.Second, opts.receiveWindow)
	assert.Equal(t, 5*time.Second, opts.connackTimeout)
	assert.Equal(t, 5*time.Second, opts.iterationDelay)
	assert.Equal(t, 3, opts.shutdownPolls)
	assert.Equal(t, 250*time.Millisecond, opts.shutdownPollDelay)
	assert.Equal(t, ExhaustionFatal, opts.exhaustionPolicy)
	assert.Equal(t, DefaultBufferSize, opts.bufferSize)
	assert.Equal(t, DefaultBackoffPolicy(), opts.connectBackoff)
	assert.Equal(t, DefaultBackoffPolicy(), opts.subscribeBackoff)

	dialer, ok := opts.dialer.(*TCPDialer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, dialer.Timeout)
}

func TestWithClientID(t *testing.T) {
	opts := applyOptions(WithClientID("test-client"))
	assert.Equal(t, "test-client", opts.clientID)
}

func TestWithCredentials(t *testing.T) {
	opts := applyOptions(WithCredentials("user", "pass"))
	assert.Equal(t, "user", opts.username)
	assert.Equal(t, []byte("pass"), opts.password)
}

func TestWithKeepAlive(t *testing.T) {
	opts := applyOptions(WithKeepAlive(30))
	assert.Equal(t, uint16(30), opts.keepAlive)
}

func TestWithTopics(t *testing.T) {
	opts := applyOptions(WithTopics("a/b", "c/+"))
	assert.Equal(t, []string{"a/b", "c/+"}, opts.topics)
}

func TestWithPublishTopic(t *testing.T) {
	opts := applyOptions(WithPublishTopic("out/data"))
	assert.Equal(t, "out/data", opts.publishTopic)
}

func TestWithPayload(t *testing.T) {
	opts := applyOptions(WithPayload([]byte("payload")))
	assert.Equal(t, []byte("payload"), opts.payload)
}

func TestWithPublishRounds(t *testing.T) {
	opts := applyOptions(WithPublishRounds(2))
	assert.Equal(t, 2, opts.publishRounds)
}

func TestWithKeepAliveDelay(t *testing.T) {
	opts := applyOptions(WithKeepAliveDelay(100 * time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, opts.keepAliveDelay)
}

func TestWithReceiveWindow(t *testing.T) {
	opts := applyOptions(WithReceiveWindow(50 * time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, opts.receiveWindow)
}

func TestWithConnackTimeout(t *testing.T) {
	opts := applyOptions(WithConnackTimeout(2 * time.Second))
	assert.Equal(t, 2*time.Second, opts.connackTimeout)
}

func TestWithIterationDelay(t *testing.T) {
	opts := applyOptions(WithIterationDelay(time.Second))
	assert.Equal(t, time.Second, opts.iterationDelay)
}

func TestWithShutdownPolls(t *testing.T) {
	opts := applyOptions(WithShutdownPolls(5, 100*time.Millisecond))
	assert.Equal(t, 5, opts.shutdownPolls)
	assert.Equal(t, 100*time.Millisecond, opts.shutdownPollDelay)
}

func TestWithConnectBackoff(t *testing.T) {
	policy := BackoffPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, MaxAttempts: 2}
	opts := applyOptions(WithConnectBackoff(policy))
	assert.Equal(t, policy, opts.connectBackoff)
}

func TestWithSubscribeBackoff(t *testing.T) {
	policy := BackoffPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, MaxAttempts: 2}
	opts := applyOptions(WithSubscribeBackoff(policy))
	assert.Equal(t, policy, opts.subscribeBackoff)
}

func TestWithSubscribeExhaustionPolicy(t *testing.T) {
	opts := applyOptions(WithSubscribeExhaustionPolicy(ExhaustionEndIteration))
	assert.Equal(t, ExhaustionEndIteration, opts.exhaustionPolicy)
}

func TestWithDialer(t *testing.T) {
	dialer := NewUnixDialer()
	opts := applyOptions(WithDialer(dialer))
	assert.Equal(t, dialer, opts.dialer)
}

func TestWithLogger(t *testing.T) {
	logger := NewNoOpLogger()
	opts := applyOptions(WithLogger(logger))
	assert.Equal(t, logger, opts.logger)
}

func TestWithMetrics(t *testing.T) {
	m := NewMemoryMetrics()
	opts := applyOptions(WithMetrics(m))
	assert.Equal(t, m, opts.metrics)
}

func TestWithPublishHandler(t *testing.T) {
	called := false
	opts := applyOptions(WithPublishHandler(func(_ *Message) { called = true }))

	require.NotNil(t, opts.onPublish)
	opts.onPublish(&Message{})
	assert.True(t, called)
}

func TestWithBufferSize(t *testing.T) {
	opts := applyOptions(WithBufferSize(1024))
	assert.Equal(t, 1024, opts.bufferSize)
}

func TestExhaustionPolicyString(t *testing.T) {
	assert.Equal(t, "fatal", ExhaustionFatal.String())
	assert.Equal(t, "end-iteration", ExhaustionEndIteration.String())
	assert.Equal(t, "unknown", ExhaustionPolicy(99).String())
}

func TestOptionsCompose(t *testing.T) {
	opts := applyOptions(
		WithClientID("composed"),
		WithKeepAlive(20),
		WithPublishRounds(1),
	)

	assert.Equal(t, "composed", opts.clientID)
	assert.Equal(t, uint16(20), opts.keepAlive)
	assert.Equal(t, 1, opts.publishRounds)

	// Untouched fields keep their defaults.
	assert.Equal(t, 5*time.Second, opts.iterationDelay)
}
