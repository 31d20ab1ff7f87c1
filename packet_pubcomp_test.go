//nolint:dupl // Similar test structure for similar packet types
package mqttv3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubcompPacketType(t *testing.T) {
	p := &PubcompPacket{}
	assert.Equal(t, PacketPUBCOMP, p.Type())
}

func TestPubcompPacketEncode(t *testing.T) {
	packet := PubcompPacket{PacketID: 65535}

	buf := make([]byte, packet.Size())
	n, err := packet.EncodeTo(buf)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x70, 0x02, 0xFF, 0xFF}, buf[:n])
}

func TestPubcompPacketValidate(t *testing.T) {
	p := PubcompPacket{}
	assert.ErrorIs(t, p.Validate(), ErrInvalidPacketID)

	p.PacketID = 1
	assert.NoError(t, p.Validate())
}

func TestDecodePubcomp(t *testing.T) {
	ack, err := decodePubcomp([]byte{0xFF, 0xFF})
	require.NoError(t, err)

	assert.Equal(t, uint16(65535), ack.PacketID)
}
