package mqttv3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSuback(t *testing.T) {
	ack, err := decodeSuback([]byte{0x00, 0x01, 0x00})
	require.NoError(t, err)

	assert.Equal(t, uint16(1), ack.PacketID)
	assert.Equal(t, []byte{0x00}, ack.ReturnCodes)
	assert.False(t, ack.Rejected(0))
}

func TestDecodeSubackMixedCodes(t *testing.T) {
	ack, err := decodeSuback([]byte{0x12, 0x34, 0x80, 0x01, 0x00})
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1234), ack.PacketID)
	assert.Len(t, ack.ReturnCodes, 3)
	assert.True(t, ack.Rejected(0))
	assert.False(t, ack.Rejected(1), "granted QoS 1 is not a failure")
	assert.False(t, ack.Rejected(2))
}

func TestDecodeSubackTooShort(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty", body: nil},
		{name: "one byte", body: []byte{0x00}},
		{name: "id only", body: []byte{0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSuback(tt.body)
			assert.ErrorIs(t, err, ErrMalformedPacket)
		})
	}
}

func TestDecodeSubackCodesAliasBody(t *testing.T) {
	body := []byte{0x00, 0x01, 0x00, 0x80}

	ack, err := decodeSuback(body)
	require.NoError(t, err)
	require.Len(t, ack.ReturnCodes, 2)

	assert.Same(t, &body[2], &ack.ReturnCodes[0])
}
