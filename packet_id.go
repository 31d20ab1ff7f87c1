package mqttv3

// PacketIDAllocator hands out packet identifiers for SUBSCRIBE and
// UNSUBSCRIBE packets. Identifiers are monotonically increasing for
// the lifetime of the allocator and wrap from 65535 back to 1, so the
// reserved value 0 is never produced.
//
// The session sends at most one identified request at a time and waits
// for its acknowledgement, so allocated identifiers are never tracked
// for reuse. The allocator is not safe for concurrent use.
type PacketIDAllocator struct {
	last uint16
}

// NewPacketIDAllocator creates an allocator whose first Next call
// returns 1.
func NewPacketIDAllocator() *PacketIDAllocator {
	return &PacketIDAllocator{}
}

// Next returns the next packet identifier.
func (a *PacketIDAllocator) Next() uint16 {
	a.last++
	if a.last == 0 {
		a.last = 1
	}
	return a.last
}
