package mqttv3

import "errors"

// Protocol identification for MQTT v3.1.1.
const (
	protocolName  = "MQTT"
	protocolLevel = 0x04
)

// Connect flag bit positions.
const (
	connectFlagCleanSession = 0x02
	connectFlagPassword     = 0x40
	connectFlagUsername     = 0x80
)

// CONNECT packet errors.
var (
	ErrEmptyClientID           = errors.New("client identifier must not be empty")
	ErrPasswordWithoutUsername = errors.New("password set without username")
)

// ConnectPacket represents an MQTT CONNECT packet.
type ConnectPacket struct {
	ClientID     string
	CleanSession bool
	KeepAlive    uint16 // seconds, 0 disables the keep-alive mechanism
	Username     string
	Password     []byte
}

// Type returns the packet type.
func (p *ConnectPacket) Type() PacketType { return PacketCONNECT }

// Size returns the total encoded size in bytes.
func (p *ConnectPacket) Size() int {
	return packetSize(p.bodySize())
}

func (p *ConnectPacket) bodySize() int {
	// Protocol name, level byte, connect flags and keep alive.
	size := stringSize(protocolName) + 1 + 1 + 2
	size += stringSize(p.ClientID)

	if p.Username != "" {
		size += stringSize(p.Username)
	}

	if p.Password != nil {
		size += binarySize(p.Password)
	}

	return size
}

// EncodeTo writes the complete packet into buf.
func (p *ConnectPacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	header := FixedHeader{
		PacketType:      PacketCONNECT,
		RemainingLength: p.bodySize(),
	}

	n, err := header.EncodeTo(buf)
	if err != nil {
		return n, err
	}

	n += putString(buf[n:], protocolName)
	buf[n] = protocolLevel
	n++
	buf[n] = p.connectFlags()
	n++
	n += putUint16(buf[n:], p.KeepAlive)
	n += putString(buf[n:], p.ClientID)

	if p.Username != "" {
		n += putString(buf[n:], p.Username)
	}

	if p.Password != nil {
		n += putBinary(buf[n:], p.Password)
	}

	return n, nil
}

func (p *ConnectPacket) connectFlags() byte {
	var flags byte

	if p.CleanSession {
		flags |= connectFlagCleanSession
	}

	if p.Username != "" {
		flags |= connectFlagUsername
	}

	if p.Password != nil {
		flags |= connectFlagPassword
	}

	return flags
}

// Validate validates the packet contents.
func (p *ConnectPacket) Validate() error {
	if p.ClientID == "" {
		return ErrEmptyClientID
	}

	if err := validateString(p.ClientID); err != nil {
		return err
	}

	if p.Username != "" {
		if err := validateString(p.Username); err != nil {
			return err
		}
	}

	if p.Password != nil && p.Username == "" {
		return ErrPasswordWithoutUsername
	}

	if len(p.Password) > maxUint16 {
		return ErrBinaryTooLong
	}

	return nil
}
