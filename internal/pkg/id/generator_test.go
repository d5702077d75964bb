package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraceID(t *testing.T) {
	id := NewTraceID()
	assert.Len(t, id, 32)
	assert.True(t, ValidateTraceID(id))
}

func TestNewSpanID(t *testing.T) {
	id := NewSpanID()
	assert.Len(t, id, 16)
	assert.True(t, ValidateSpanID(id))
}

func TestTraceIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTraceID()
		assert.False(t, seen[id], "duplicate trace ID generated")
		seen[id] = true
	}
}

func TestValidateTraceID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"valid lowercase hex", "0123456789abcdef0123456789abcdef", true},
		{"too short", "0123456789abcdef", false},
		{"too long", "0123456789abcdef0123456789abcdef00", false},
		{"uppercase rejected", "0123456789ABCDEF0123456789ABCDEF", false},
		{"non-hex characters", "0123456789abcdxy0123456789abcdef", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateTraceID(tt.id))
		})
	}
}

func TestValidateSpanID(t *testing.T) {
	assert.True(t, ValidateSpanID("0123456789abcdef"))
	assert.False(t, ValidateSpanID("0123456789abcde"))
	assert.False(t, ValidateSpanID("0123456789abcdef00"))
}
