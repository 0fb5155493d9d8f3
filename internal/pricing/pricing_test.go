package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw   string
		price int64
		ok    bool
	}{
		{"21,500", 21500, true},
		{"1234", 1234, true},
		{" 3,450 ", 3450, true},
		{"1,234원", 1234, true},
		{"-", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"N/A", 0, false},
		{"0", 0, true},
	}

	for _, tc := range tests {
		price, ok := ParsePrice(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.price, price, "raw=%q", tc.raw)
	}
}

func TestChangeRate(t *testing.T) {
	assert.Equal(t, 10.0, ChangeRate(100, 1000))
	assert.Equal(t, -5.0, ChangeRate(-50, 1000))
	assert.Equal(t, 33.3333, ChangeRate(100, 300))
	assert.Equal(t, 66.6667, ChangeRate(200, 300))

	// Missing or nonsensical base defaults to zero.
	assert.Equal(t, 0.0, ChangeRate(100, 0))
	assert.Equal(t, 0.0, ChangeRate(100, -10))
}
