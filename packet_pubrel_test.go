//nolint:dupl // Similar test structure for similar packet types
package mqttv3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubrelPacketType(t *testing.T) {
	p := &PubrelPacket{}
	assert.Equal(t, PacketPUBREL, p.Type())
}

func TestPubrelPacketEncode(t *testing.T) {
	packet := PubrelPacket{PacketID: 7}

	buf := make([]byte, packet.Size())
	n, err := packet.EncodeTo(buf)
	require.NoError(t, err)

	// PUBREL carries the mandatory 0x02 flags.
	assert.Equal(t, []byte{0x62, 0x02, 0x00, 0x07}, buf[:n])
}

func TestPubrelPacketValidate(t *testing.T) {
	p := PubrelPacket{}
	assert.ErrorIs(t, p.Validate(), ErrInvalidPacketID)

	p.PacketID = 1
	assert.NoError(t, p.Validate())
}

func TestDecodePubrel(t *testing.T) {
	ack, err := decodePubrel([]byte{0x00, 0x07})
	require.NoError(t, err)

	assert.Equal(t, uint16(7), ack.PacketID)
}
