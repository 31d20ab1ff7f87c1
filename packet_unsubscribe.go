package mqttv3

// UnsubscribePacket represents an MQTT UNSUBSCRIBE packet.
type UnsubscribePacket struct {
	PacketID uint16
	Filters  []string
}

// Type returns the packet type.
func (p *UnsubscribePacket) Type() PacketType { return PacketUNSUBSCRIBE }

// Size returns the total encoded size in bytes.
func (p *UnsubscribePacket) Size() int {
	return packetSize(p.bodySize())
}

func (p *UnsubscribePacket) bodySize() int {
	size := 2
	for _, f := range p.Filters {
		size += stringSize(f)
	}
	return size
}

// EncodeTo writes the complete packet into buf.
func (p *UnsubscribePacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	header := FixedHeader{
		PacketType:      PacketUNSUBSCRIBE,
		Flags:           0x02, // UNSUBSCRIBE must have flags 0x02
		RemainingLength: p.bodySize(),
	}

	n, err := header.EncodeTo(buf)
	if err != nil {
		return n, err
	}

	n += putUint16(buf[n:], p.PacketID)

	for _, f := range p.Filters {
		n += putString(buf[n:], f)
	}

	return n, nil
}

// Validate validates the packet contents.
func (p *UnsubscribePacket) Validate() error {
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
