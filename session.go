package mqttv3

import (
	"errors"
	"fmt"
	"time"
)

// session drives one connected iteration of the client loop. It owns
// the connection for its lifetime but borrows the packet identifier
// allocator, the topic filter context and the shared buffer from the
// client, since those outlive any single connection.
type session struct {
	conn    Conn
	buf     *FixedBuffer
	topics  *TopicFilterContext
	logger  Logger
	metrics *SessionMetrics
	opts    *clientOptions

	// Identifiers of the in-flight SUBSCRIBE and UNSUBSCRIBE requests,
	// cross-checked against the matching acknowledgements.
	subscribePacketID   uint16
	unsubscribePacketID uint16
}

// sendPacket encodes and writes one packet, recording metrics.
func (s *session) sendPacket(pkt Packet) error {
	n, err := WritePacket(s.conn, pkt, s.buf)
	if err != nil {
		return err
	}

	s.metrics.PacketSent(pkt.Type(), n)
	s.logger.Debug("packet sent", LogFields{
		LogFieldPacketType: pkt.Type().String(),
	})

	return nil
}

// establish performs the CONNECT/CONNACK handshake in lock step: no
// other packet may be in flight, and the one answer must be a CONNACK.
// The wait for the CONNACK is bounded by the configured timeout.
func (s *session) establish() error {
	connect := &ConnectPacket{
		ClientID: s.opts.clientID,
		// Session state does not survive iterations, every connection
		// starts clean.
		CleanSession: true,
		KeepAlive:    s.opts.keepAlive,
		Username:     s.opts.username,
		Password:     s.opts.password,
	}

	if err := s.sendPacket(connect); err != nil {
		return err
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(s.opts.connackTimeout)); err != nil {
		return NewTransportError("read", err)
	}

	pkt, err := ReadPacket(s.conn, s.buf)

	if derr := s.conn.SetReadDeadline(time.Time{}); derr != nil && err == nil {
		err = NewTransportError("read", derr)
	}

	if err != nil {
		return err
	}

	s.metrics.PacketReceived(pkt.Header.PacketType, pkt.Header.Size()+len(pkt.Body))

	if pkt.Header.PacketType != PacketCONNACK {
		return fmt.Errorf("%w: got %s while waiting for CONNACK",
			ErrUnexpectedPacket, pkt.Header.PacketType)
	}

	ack, err := decodeConnack(pkt.Body)
	if err != nil {
		return err
	}

	if !ack.Accepted() {
		return NewConnackError(ack.Code)
	}

	s.logger.Info("session established", LogFields{
		"session_present": ack.SessionPresent,
	})

	return nil
}

// subscribe sends a SUBSCRIBE for every tracked filter under the given
// packet identifier.
func (s *session) subscribe(id uint16) error {
	s.subscribePacketID = id

	err := s.sendPacket(&SubscribePacket{
		PacketID: id,
		Filters:  s.topics.Filters(),
	})
	if err != nil {
		return err
	}

	s.logger.Debug("subscribe sent", LogFields{
		LogFieldPacketID: id,
		LogFieldFilters:  s.topics.Filters(),
	})

	return nil
}

// unsubscribe sends an UNSUBSCRIBE for every tracked filter under the
// given packet identifier.
func (s *session) unsubscribe(id uint16) error {
	s.unsubscribePacketID = id

	return s.sendPacket(&UnsubscribePacket{
		PacketID: id,
		Filters:  s.topics.Filters(),
	})
}

// publish sends one QoS 0 PUBLISH with the configured payload.
func (s *session) publish() error {
	err := s.sendPacket(&PublishPacket{
		Topic:   s.opts.publishTopic,
		Payload: s.opts.payload,
	})
	if err != nil {
		return err
	}

	s.logger.Info("published message", LogFields{
		LogFieldTopic:      s.opts.publishTopic,
		LogFieldPayloadLen: len(s.opts.payload),
	})

	return nil
}

// ping sends a PINGREQ.
func (s *session) ping() error {
	return s.sendPacket(&PingreqPacket{})
}

// disconnect sends a DISCONNECT.
func (s *session) disconnect() error {
	return s.sendPacket(&DisconnectPacket{})
}

// processOne reads and routes at most one incoming packet, waiting up
// to window for it to start arriving. It returns false without error
// when nothing arrived, which is normal at call sites that merely
// expect an acknowledgement to show up eventually.
func (s *session) processOne(window time.Duration) (bool, error) {
	pkt, err := TryReadPacket(s.conn, s.buf, window)
	if err != nil {
		return false, err
	}

	if pkt == nil {
		return false, nil
	}

	s.metrics.PacketReceived(pkt.Header.PacketType, pkt.Header.Size()+len(pkt.Body))

	if err := s.route(pkt); err != nil {
		return true, err
	}

	return true, nil
}

// route dispatches one incoming packet. PUBLISH is detected on the
// packet type alone since its lower flag bits vary with delivery
// options; everything else is an acknowledgement matched by exact
// type. CONNACK is handled during establish and is unexpected here.
func (s *session) route(pkt *IncomingPacket) error {
	if pkt.Header.PacketType == PacketPUBLISH {
		return s.handlePublish(pkt)
	}

	switch pkt.Header.PacketType {
	case PacketSUBACK:
		return s.handleSuback(pkt)

	case PacketUNSUBACK:
		return s.handleUnsuback(pkt)

	case PacketPINGRESP:
		// PINGRESP carries no identifier, receipt alone answers the
		// outstanding PINGREQ.
		if _, err := decodePingresp(pkt.Body); err != nil {
			return err
		}
		s.logger.Debug("ping acknowledged", nil)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedPacket, pkt.Header.PacketType)
	}
}

// handlePublish decodes an incoming QoS 0 delivery. The topic is
// compared against the tracked filters purely for logging, off-filter
// deliveries are not an error.
func (s *session) handlePublish(pkt *IncomingPacket) error {
	msg, err := decodePublish(pkt.Header, pkt.Body)
	if err != nil {
		return err
	}

	fields := LogFields{
		LogFieldTopic:      msg.Topic,
		LogFieldPayloadLen: len(msg.Payload),
	}

	if s.topics.matches(msg.Topic) {
		s.logger.Info("incoming publish", fields)
	} else {
		s.logger.Warn("incoming publish on unsubscribed topic", fields)
	}

	if s.opts.onPublish != nil {
		s.opts.onPublish(msg)
	}

	return nil
}

// handleSuback applies SUBACK status codes to the filter context and
// then cross-checks the packet identifier. The flags are updated first
// so the context reflects the broker's answer even when the identifier
// turns out to be wrong.
func (s *session) handleSuback(pkt *IncomingPacket) error {
	ack, err := decodeSuback(pkt.Body)
	if err != nil {
		return err
	}

	if err := s.topics.applySuback(ack.ReturnCodes); err != nil {
		return err
	}

	if ack.PacketID != s.subscribePacketID {
		return fmt.Errorf("%w: suback for %d, expected %d",
			ErrPacketIDMismatch, ack.PacketID, s.subscribePacketID)
	}

	s.logger.Debug("suback received", LogFields{
		LogFieldPacketID: ack.PacketID,
	})

	return nil
}

// handleUnsuback cross-checks the UNSUBACK identifier against the
// outstanding UNSUBSCRIBE.
func (s *session) handleUnsuback(pkt *IncomingPacket) error {
	ack, err := decodeUnsuback(pkt.Body)
	if err != nil {
		return err
	}

	if ack.PacketID != s.unsubscribePacketID {
		return fmt.Errorf("%w: unsuback for %d, expected %d",
			ErrPacketIDMismatch, ack.PacketID, s.unsubscribePacketID)
	}

	s.logger.Debug("unsuback received", LogFields{
		LogFieldPacketID: ack.PacketID,
	})

	return nil
}

// shutdown closes the session down gracefully: half-close the
// connection, wait for the broker to close its side, then release the
// socket. A broker that never answers is logged and absorbed, shutdown
// problems never fail an otherwise clean iteration.
func (s *session) shutdown() {
	if err := s.conn.CloseWrite(); err != nil {
		s.logger.Debug("close write failed", LogFields{
			LogFieldError: err.Error(),
		})
	}

	err := awaitPeerClose(s.conn, s.opts.shutdownPolls, s.opts.shutdownPollDelay)
	switch {
	case err == nil:
		s.logger.Debug("broker closed connection", nil)
	case errors.Is(err, ErrShutdownTimeout):
		s.metrics.ShutdownTimeout()
		s.logger.Warn("broker did not close connection in time", nil)
	default:
		s.logger.Debug("shutdown poll failed", LogFields{
			LogFieldError: err.Error(),
		})
	}

	if err := s.conn.Close(); err != nil {
		s.logger.Debug("connection close failed", LogFields{
			LogFieldError: err.Error(),
		})
	}
}
