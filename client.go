package mqttv3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Client runs a repeating MQTT v3.1.1 session against a single broker:
// connect, subscribe, a fixed number of publish/ping rounds,
// unsubscribe, disconnect, then start over. All delivery is QoS 0.
//
// A Client is single-threaded. Run owns the connection for its whole
// lifetime and the methods must not be called concurrently.
type Client struct {
	addr    string
	options *clientOptions

	ids    *PacketIDAllocator
	topics *TopicFilterContext
	buf    *FixedBuffer

	logger  Logger
	metrics *SessionMetrics

	iteration uint64
}

// applyOptions builds the option set from defaults plus overrides.
func applyOptions(opts ...Option) *clientOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// NewClient creates a client for the given broker address.
func NewClient(addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New("broker address is required")
	}

	options := applyOptions(opts...)

	if options.clientID == "" {
		options.clientID = generateClientID()
	}
	if len(options.topics) == 0 {
		options.topics = []string{options.clientID + "/example/topic"}
	}
	if options.publishTopic == "" {
		options.publishTopic = options.topics[0]
	}
	if options.keepAliveDelay <= 0 {
		options.keepAliveDelay = time.Duration(options.keepAlive) * time.Second / 4
	}
	if options.publishRounds < 0 {
		return nil, errors.New("publish rounds must not be negative")
	}
	if options.dialer == nil {
		return nil, errors.New("dialer is required")
	}

	for _, filter := range options.topics {
		if err := ValidateTopicFilter(filter); err != nil {
			return nil, fmt.Errorf("topic filter %q: %w", filter, err)
		}
	}

	if err := ValidateTopicName(options.publishTopic); err != nil {
		return nil, fmt.Errorf("publish topic %q: %w", options.publishTopic, err)
	}

	logger := options.logger
	if logger == nil {
		logger = NewNoOpLogger()
	}

	c := &Client{
		addr:    addr,
		options: options,
		ids:     NewPacketIDAllocator(),
		topics:  NewTopicFilterContext(options.topics),
		buf:     NewFixedBuffer(options.bufferSize),
		metrics: NewSessionMetrics(options.metrics),
		logger: logger.WithFields(LogFields{
			LogFieldClientID: options.clientID,
			LogFieldBroker:   addr,
		}),
	}

	return c, nil
}

// ClientID returns the identifier the client connects with.
func (c *Client) ClientID() string {
	return c.options.clientID
}

// Run executes session iterations until the context is canceled or a
// fatal error occurs. Transport failures, protocol violations and an
// exhausted connect retry budget are fatal; an exhausted subscribe
// retry budget is fatal or not depending on the configured policy.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.RunOnce(ctx)
		if err != nil && !c.absorbable(err) {
			return err
		}

		c.logger.Debug("waiting before next iteration", LogFields{
			LogFieldDelay: c.options.iterationDelay.String(),
		})

		if err := sleepCtx(ctx, c.options.iterationDelay); err != nil {
			return err
		}
	}
}

// absorbable reports whether an iteration error only ends the
// iteration rather than the whole loop.
func (c *Client) absorbable(err error) bool {
	if c.options.exhaustionPolicy != ExhaustionEndIteration {
		return false
	}

	var rerr *RetryError
	if !errors.As(err, &rerr) || rerr.Op != "subscribe" {
		return false
	}

	c.logger.Error("subscribe retries exhausted, ending iteration", LogFields{
		LogFieldError: err.Error(),
	})

	return true
}

// RunOnce executes a single session iteration: connect with retries,
// handshake, subscribe with retries, the publish/ping rounds,
// unsubscribe, disconnect and graceful shutdown.
func (c *Client) RunOnce(ctx context.Context) error {
	c.iteration++

	logger := c.logger.WithFields(LogFields{
		LogFieldIteration: c.iteration,
	})

	// Acknowledgement state from a previous iteration must not leak
	// into this one.
	defer c.topics.Reset()

	c.metrics.SessionStarted()
	start := time.Now()

	logger.Info("starting session iteration", nil)

	conn, err := c.connectWithRetry(ctx, logger)
	if err != nil {
		return err
	}

	sess := &session{
		conn:    conn,
		buf:     c.buf,
		topics:  c.topics,
		logger:  logger,
		metrics: c.metrics,
		opts:    c.options,
	}

	if err := c.runSession(ctx, sess, logger); err != nil {
		conn.Close()
		return err
	}

	c.metrics.SessionCompleted(time.Since(start))
	logger.Info("session iteration completed", nil)

	return nil
}

// connectWithRetry dials the broker, backing off between failed
// attempts until the policy's budget runs out.
func (c *Client) connectWithRetry(ctx context.Context, logger Logger) (Conn, error) {
	state := c.options.connectBackoff.start()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.metrics.ConnectAttempt()

		conn, err := c.options.dialer.Dial(ctx, c.addr)
		if err == nil {
			logger.Info("connected to broker", nil)
			return conn, nil
		}

		logger.Warn("connection attempt failed", LogFields{
			LogFieldAttempt: state.attempts + 1,
			LogFieldError:   err.Error(),
		})

		delay, derr := state.nextDelay()
		if derr != nil {
			c.metrics.RetryExhausted("connect")
			return nil, NewRetryError("connect", state.attempts, err)
		}

		logger.Info("backing off before reconnect", LogFields{
			LogFieldDelay: delay.String(),
		})

		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// subscribeWithRetry sends SUBSCRIBE until every filter is
// acknowledged or the retry budget runs out. The packet identifier is
// obtained once and reused across retries, so the broker sees the
// retries as the same request. Transport failures and protocol
// violations are returned immediately; only a missing or rejecting
// SUBACK triggers a retry.
func (c *Client) subscribeWithRetry(ctx context.Context, sess *session, logger Logger) error {
	id := c.ids.Next()
	state := c.options.subscribeBackoff.start()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := sess.subscribe(id); err != nil {
			return err
		}

		if _, err := sess.processOne(c.options.receiveWindow); err != nil {
			return err
		}

		if c.topics.AllAcked() {
			logger.Info("all topic filters acknowledged", nil)
			return nil
		}

		logger.Warn("subscription not fully acknowledged", LogFields{
			LogFieldFilters: c.topics.unacked(),
		})

		delay, derr := state.nextDelay()
		if derr != nil {
			c.metrics.RetryExhausted("subscribe")
			return NewRetryError("subscribe", state.attempts, ErrSubscriptionRejected)
		}

		logger.Info("backing off before subscribe retry", LogFields{
			LogFieldDelay: delay.String(),
		})

		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
	}
}

// runSession drives one connected session from handshake to graceful
// shutdown.
func (c *Client) runSession(ctx context.Context, sess *session, logger Logger) error {
	if err := sess.establish(); err != nil {
		return err
	}

	if err := c.subscribeWithRetry(ctx, sess, logger); err != nil {
		return err
	}

	for round := 1; round <= c.options.publishRounds; round++ {
		if err := sess.publish(); err != nil {
			return fmt.Errorf("publish round %d: %w", round, err)
		}

		// The broker echoes the publish back through the matching
		// subscription; pick it up if it has arrived.
		if _, err := sess.processOne(c.options.receiveWindow); err != nil {
			return err
		}

		if err := sleepCtx(ctx, c.options.keepAliveDelay); err != nil {
			return err
		}

		if err := sess.ping(); err != nil {
			return err
		}

		if _, err := sess.processOne(c.options.receiveWindow); err != nil {
			return err
		}
	}

	if err := sess.unsubscribe(c.ids.Next()); err != nil {
		return err
	}

	if _, err := sess.processOne(c.options.receiveWindow); err != nil {
		return err
	}

	if err := sess.disconnect(); err != nil {
		return err
	}

	sess.shutdown()

	return nil
}

// sleepCtx pauses for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// generateClientID returns a random identifier for clients that did
// not configure one.
func generateClientID() string {
	return "mqttv3-" + uuid.NewString()[:8]
}
