package mqttv3

import "errors"

// SUBSCRIBE packet errors.
var (
	ErrNoTopicFilters = errors.New("at least one topic filter is required")
)

// SubscribePacket represents an MQTT SUBSCRIBE packet. Every filter is
// requested at QoS 0.
type SubscribePacket struct {
	PacketID uint16
	Filters  []string
}

// Type returns the packet type.
func (p *SubscribePacket) Type() PacketType { return PacketSUBSCRIBE }

// Size returns the total encoded size in bytes.
func (p *SubscribePacket) Size() int {
	return packetSize(p.bodySize())
}

func (p *SubscribePacket) bodySize() int {
	size := 2
	for _, f := range p.Filters {
		// Topic filter plus one requested QoS byte.
		size += stringSize(f) + 1
	}
	return size
}

// EncodeTo writes the complete packet into buf.
func (p *SubscribePacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	header := FixedHeader{
		PacketType:      PacketSUBSCRIBE,
		Flags:           0x02, // SUBSCRIBE must have flags 0x02
		RemainingLength: p.bodySize(),
	}

	n, err := header.EncodeTo(buf)
	if err != nil {
		return n, err
	}

	n += putUint16(buf[n:], p.PacketID)

	for _, f := range p.Filters {
		n += putString(buf[n:], f)
		buf[n] = 0 // requested QoS
		n++
	}

	return n, nil
}

// Validate validates the packet contents.
func (p *SubscribePacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}

	if len(p.Filters) == 0 {
		return ErrNoTopicFilters
	}

	for _, f := range p.Filters {
		if err := ValidateTopicFilter(f); err != nil {
			return err
		}
		if err := validateString(f); err != nil {
			return err
		}
	}

	return nil
}
