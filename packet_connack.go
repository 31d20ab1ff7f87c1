package mqttv3

import "errors"

// CONNACK packet errors.
var (
	ErrInvalidConnackFlags = errors.New("invalid CONNACK flags")
)

// ConnackCode is the return code of a CONNACK packet.
type ConnackCode byte

// CONNACK return codes defined by MQTT v3.1.1.
const (
	ConnectionAccepted          ConnackCode = 0x00
	ErrRefusedProtocolVersion   ConnackCode = 0x01
	ErrRefusedIdentifier        ConnackCode = 0x02
	ErrRefusedServerUnavailable ConnackCode = 0x03
	ErrRefusedBadCredentials    ConnackCode = 0x04
	ErrRefusedNotAuthorized     ConnackCode = 0x05
)

// String returns the string representation of the return code.
func (c ConnackCode) String() string {
	switch c {
	case ConnectionAccepted:
		return "connection accepted"
	case ErrRefusedProtocolVersion:
		return "unacceptable protocol version"
	case ErrRefusedIdentifier:
		return "identifier rejected"
	case ErrRefusedServerUnavailable:
		return "server unavailable"
	case ErrRefusedBadCredentials:
		return "bad user name or password"
	case ErrRefusedNotAuthorized:
		return "not authorized"
	default:
		return "unknown return code"
	}
}

// ConnackPacket represents an MQTT CONNACK packet.
type ConnackPacket struct {
	// SessionPresent indicates the broker resumed a session from a
	// previous connection.
	SessionPresent bool

	// Code is the connection result.
	Code ConnackCode
}

// Accepted returns true when the broker accepted the connection.
func (p *ConnackPacket) Accepted() bool {
	return p.Code == ConnectionAccepted
}

// decodeConnack decodes a CONNACK packet body.
func decodeConnack(body []byte) (*ConnackPacket, error) {
	if len(body) != 2 {
		return nil, ErrMalformedPacket
	}

	// Bits 7-1 of the acknowledge flags are reserved and must be zero.
	if body[0]&0xFE != 0 {
		return nil, ErrInvalidConnackFlags
	}

	return &ConnackPacket{
		SessionPresent: body[0]&0x01 != 0,
		Code:           ConnackCode(body[1]),
	}, nil
}
