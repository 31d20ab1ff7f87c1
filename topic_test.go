package mqttv3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTopicName(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		err   error
	}{
		{name: "simple", topic: "sensors/temperature"},
		{name: "single level", topic: "status"},
		{name: "leading slash", topic: "/status"},
		{name: "unicode", topic: "sensors/außen"},
		{name: "empty", topic: "", err: ErrEmptyTopic},
		{name: "plus wildcard", topic: "sensors/+/temp", err: ErrInvalidTopicName},
		{name: "hash wildcard", topic: "sensors/#", err: ErrInvalidTopicName},
		{name: "null character", topic: "sensors\x00temp", err: ErrInvalidTopicName},
		{name: "invalid utf8", topic: string([]byte{0xff, 0xfe}), err: ErrInvalidTopicName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopicName(tt.topic)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTopicFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		err    error
	}{
		{name: "literal", filter: "sensors/temperature"},
		{name: "single level wildcard", filter: "sensors/+/temp"},
		{name: "multi level wildcard", filter: "sensors/#"},
		{name: "bare hash", filter: "#"},
		{name: "bare plus", filter: "+"},
		{name: "empty", filter: "", err: ErrEmptyTopic},
		{name: "plus inside level", filter: "sensors/temp+", err: ErrInvalidTopicFilter},
		{name: "hash inside level", filter: "sensors/#temp", err: ErrInvalidTopicFilter},
		{name: "hash not last", filter: "sensors/#/temp", err: ErrInvalidTopicFilter},
		{name: "null character", filter: "a\x00b", err: ErrInvalidTopicFilter},
		{name: "invalid utf8", filter: string([]byte{0xff}), err: ErrInvalidTopicFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopicFilter(tt.filter)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContainsWildcard(t *testing.T) {
	assert.False(t, containsWildcard("sensors/temp"))
	assert.True(t, containsWildcard("sensors/+"))
	assert.True(t, containsWildcard("sensors/#"))
}
