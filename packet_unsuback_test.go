package mqttv3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUnsuback(t *testing.T) {
	ack, err := decodeUnsuback([]byte{0x00, 0x05})
	require.NoError(t, err)

	assert.Equal(t, uint16(5), ack.PacketID)
}

func TestDecodeUnsubackWrongLength(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty", body: nil},
		{name: "too short", body: []byte{0x00}},
		{name: "too long", body: []byte{0x00, 0x05, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeUnsuback(tt.body)
			assert.ErrorIs(t, err, ErrMalformedPacket)
		})
	}
}
