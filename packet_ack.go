package mqttv3

// ackBodySize is the body length shared by the QoS acknowledgement
// packets. In v3.1.1 PUBACK, PUBREC, PUBREL and PUBCOMP each carry
// exactly a packet identifier.
const ackBodySize = 2

// encodeAck writes a QoS acknowledgement packet into buf.
func encodeAck(buf []byte, packetType PacketType, flags byte, id uint16) (int, error) {
	header := FixedHeader{
		PacketType:      packetType,
		Flags:           flags,
		RemainingLength: ackBodySize,
	}

	n, err := header.EncodeTo(buf)
	if err != nil {
		return n, err
	}

	n += putUint16(buf[n:], id)
	return n, nil
}

// decodeAckID decodes the packet identifier carried by a QoS
// acknowledgement body.
func decodeAckID(body []byte) (uint16, error) {
	if len(body) != ackBodySize {
		return 0, ErrMalformedPacket
	}

	id, _, err := readUint16(body)
	if err != nil {
		return 0, err
	}

	return id, nil
}
