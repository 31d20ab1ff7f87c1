// Package mqttv3 implements a looping MQTT v3.1.1 session client.
//
// This package implements the client side of the MQTT Version 3.1.1
// OASIS Standard:
// http://docs.oasis-open.org/mqtt/mqtt/v3.1.1/os/mqtt-v3.1.1-os.html
//
// The client runs a fixed session choreography against a single
// broker, forever: connect, subscribe, a configurable number of
// publish/ping rounds, unsubscribe, disconnect, graceful shutdown,
// pause, repeat. All delivery is QoS 0 and every packet in both
// directions is staged through one fixed-size buffer, so memory use is
// constant no matter how long the loop runs.
//
// # Client
//
// Use NewClient and Run for the full loop, or RunOnce for a single
// iteration:
//
//	client, err := mqttv3.NewClient("broker.example.com:1883",
//	    mqttv3.WithClientID("demo"),
//	    mqttv3.WithTopics("demo/example/topic"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = client.Run(ctx)
//
// Run returns when the context is canceled or on a fatal error:
// transport failures, protocol violations and an exhausted connect
// retry budget all stop the loop. Check the cause with errors.Is
// against ErrProtocolViolation, ErrRetryExhausted and friends, or with
// errors.As against TransportError, ConnackError and RetryError.
//
// # Packet Types
//
// The v3.1.1 control packets the session exchanges are available as
// structs implementing the Packet interface: ConnectPacket,
// PublishPacket, SubscribePacket, UnsubscribePacket, PingreqPacket and
// DisconnectPacket on the sending side, with CONNACK, SUBACK,
// UNSUBACK, PINGRESP and incoming PUBLISH decoded from the wire.
//
// Use WritePacket, ReadPacket and TryReadPacket with a FixedBuffer to
// exchange packets over a Conn directly:
//
//	buf := mqttv3.NewFixedBuffer(500)
//	n, err := mqttv3.WritePacket(conn, &mqttv3.PingreqPacket{}, buf)
//	pkt, err := mqttv3.TryReadPacket(conn, buf, time.Second)
//
// # Transports
//
// The broker is reached through the Dialer interface. TCPDialer is the
// default; ProxyDialer tunnels through HTTP CONNECT or SOCKS5 proxies
// and QUICDialer runs the session over a QUIC stream:
//
//	dialer, err := mqttv3.NewProxyDialer("socks5://proxy:1080", "", "")
//	client, err := mqttv3.NewClient(addr, mqttv3.WithDialer(dialer))
//
// # Retry Behaviour
//
// Connect and subscribe failures are retried with exponential backoff
// and jitter, each under its own BackoffPolicy:
//
//	client, err := mqttv3.NewClient(addr,
//	    mqttv3.WithConnectBackoff(mqttv3.BackoffPolicy{
//	        InitialDelay: time.Second,
//	        MaxDelay:     30 * time.Second,
//	        MaxAttempts:  10,
//	    }),
//	)
//
// # Metrics
//
// Use the built-in metrics collectors for operational metrics:
//
//	// For production use with Prometheus
//	metrics := mqttv3.NewPrometheusMetrics(nil)
//
//	// For testing
//	metrics := mqttv3.NewMemoryMetrics()
//
//	client, err := mqttv3.NewClient(addr, mqttv3.WithMetrics(metrics))
//
// # Logging
//
// Implement the Logger interface for structured logging, or use the
// bundled StdLogger or ColorLogger:
//
//	logger := mqttv3.NewStdLogger(os.Stdout, mqttv3.LogLevelInfo)
//	client, err := mqttv3.NewClient(addr, mqttv3.WithLogger(logger))
package mqttv3
