package mqttv3

import "fmt"

// TopicFilterContext tracks the acknowledgement state of a fixed set
// of topic filters across the lifetime of a client. The filter list is
// decided at construction and never changes, only the per-filter acked
// flags do.
//
// A TopicFilterContext is not safe for concurrent use.
type TopicFilterContext struct {
	filters []string
	acked   []bool
}

// NewTopicFilterContext creates a context tracking the given filters,
// all initially unacknowledged.
func NewTopicFilterContext(filters []string) *TopicFilterContext {
	copied := make([]string, len(filters))
	copy(copied, filters)

	return &TopicFilterContext{
		filters: copied,
		acked:   make([]bool, len(copied)),
	}
}

// Count returns the number of tracked filters.
func (c *TopicFilterContext) Count() int {
	return len(c.filters)
}

// Filter returns the filter at index i.
func (c *TopicFilterContext) Filter(i int) string {
	return c.filters[i]
}

// Filters returns a copy of the tracked filter list.
func (c *TopicFilterContext) Filters() []string {
	copied := make([]string, len(c.filters))
	copy(copied, c.filters)
	return copied
}

// Acked returns true when the filter at index i has been acknowledged.
func (c *TopicFilterContext) Acked(i int) bool {
	return c.acked[i]
}

// AllAcked returns true when every tracked filter has been
// acknowledged.
func (c *TopicFilterContext) AllAcked() bool {
	for _, ok := range c.acked {
		if !ok {
			return false
		}
	}
	return true
}

// Reset clears every acked flag, returning the context to its initial
// state for the next session.
func (c *TopicFilterContext) Reset() {
	for i := range c.acked {
		c.acked[i] = false
	}
}

// applySuback overwrites the acked flags from SUBACK status codes,
// matched to filters by position. A status byte with the top bit set
// reports a rejected filter. When the broker returns a different
// number of codes than filters, the overlapping prefix is still
// applied before the mismatch is reported.
func (c *TopicFilterContext) applySuback(codes []byte) error {
	n := min(len(codes), len(c.filters))
	for i := range n {
		c.acked[i] = codes[i]&SubackFailure == 0
	}

	if len(codes) != len(c.filters) {
		return fmt.Errorf("suback carries %d status codes for %d filters: %w",
			len(codes), len(c.filters), ErrProtocolViolation)
	}

	return nil
}

// unacked returns the filters that are still unacknowledged.
func (c *TopicFilterContext) unacked() []string {
	var pending []string
	for i, ok := range c.acked {
		if !ok {
			pending = append(pending, c.filters[i])
		}
	}
	return pending
}

// matches returns true when topic exactly equals one of the tracked
// filters. The session only compares literal names, there is no
// wildcard matching.
func (c *TopicFilterContext) matches(topic string) bool {
	for _, f := range c.filters {
		if f == topic {
			return true
		}
	}
	return false
}
