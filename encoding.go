package mqttv3

import (
	"encoding/binary"
	"errors"
	"io"
	"unicode/utf8"
)

// Encoding errors.
var (
	ErrStringTooLong      = errors.New("string exceeds maximum length of 65535 bytes")
	ErrBinaryTooLong      = errors.New("binary data exceeds maximum length of 65535 bytes")
	ErrInvalidUTF8        = errors.New("invalid UTF-8 string")
	ErrStringContainsNull = errors.New("string contains null character")
	ErrVarintTooLarge     = errors.New("variable byte integer exceeds maximum value")
	ErrVarintMalformed    = errors.New("malformed variable byte integer")
)

const (
	maxUint16         = 65535
	maxVarint         = 268435455 // 0x0FFFFFFF
	varintContinueBit = 0x80
	varintValueMask   = 0x7F
)

// validateString checks that s is legal as an MQTT UTF-8 encoded string.
func validateString(s string) error {
	if len(s) > maxUint16 {
		return ErrStringTooLong
	}

	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}

	for i := range len(s) {
		if s[i] == 0 {
			return ErrStringContainsNull
		}
	}

	return nil
}

// stringSize returns the encoded size of a UTF-8 string with 2-byte
// length prefix.
func stringSize(s string) int {
	return 2 + len(s)
}

// binarySize returns the encoded size of binary data with 2-byte
// length prefix.
func binarySize(data []byte) int {
	return 2 + len(data)
}

// putUint16 writes v big-endian into p. The caller guarantees capacity.
func putUint16(p []byte, v uint16) int {
	binary.BigEndian.PutUint16(p, v)
	return 2
}

// putString writes a length-prefixed string into p. The string must
// have been checked with validateString. The caller guarantees capacity.
func putString(p []byte, s string) int {
	n := putUint16(p, uint16(len(s)))
	n += copy(p[n:], s)
	return n
}

// putBinary writes length-prefixed binary data into p. The caller
// guarantees capacity.
func putBinary(p []byte, data []byte) int {
	n := putUint16(p, uint16(len(data)))
	n += copy(p[n:], data)
	return n
}

// readUint16 reads a big-endian uint16 from the front of p and returns
// the remainder of the slice.
func readUint16(p []byte) (uint16, []byte, error) {
	if len(p) < 2 {
		return 0, p, ErrMalformedPacket
	}

	return binary.BigEndian.Uint16(p), p[2:], nil
}

// readString reads a length-prefixed UTF-8 string from the front of p
// and returns the remainder of the slice. The returned string copies
// out of p.
func readString(p []byte) (string, []byte, error) {
	length, rest, err := readUint16(p)
	if err != nil {
		return "", p, err
	}

	if len(rest) < int(length) {
		return "", p, ErrMalformedPacket
	}

	s := string(rest[:length])
	if !utf8.ValidString(s) {
		return "", p, ErrInvalidUTF8
	}

	return s, rest[length:], nil
}

// putVarint writes a variable byte integer into p. The value must not
// exceed maxVarint. The caller guarantees capacity.
func putVarint(p []byte, value int) int {
	v := uint32(value)
	n := 0

	for {
		encodedByte := byte(v & varintValueMask)
		v >>= 7

		if v > 0 {
			encodedByte |= varintContinueBit
		}

		p[n] = encodedByte
		n++

		if v == 0 {
			break
		}
	}

	return n
}

// readRemainingLength reads a variable byte integer from r one byte at
// a time, as it appears after the first byte of a fixed header.
func readRemainingLength(r io.Reader) (int, error) {
	var value uint32
	var multiplier uint32 = 1
	var buf [1]byte

	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}

		encodedByte := buf[0]
		value += uint32(encodedByte&varintValueMask) * multiplier

		if encodedByte&varintContinueBit == 0 {
			break
		}

		// At most four bytes encode a remaining length.
		multiplier *= 128
		if multiplier > 128*128*128 {
			return 0, ErrVarintMalformed
		}
	}

	return int(value), nil
}

// varintSize returns the number of bytes needed to encode a variable
// byte integer.
func varintSize(value int) int {
	switch {
	case value < 128:
		return 1
	case value < 16384:
		return 2
	case value < 2097152:
		return 3
	default:
		return 4
	}
}
