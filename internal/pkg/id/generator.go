// Package id generates identifiers for traces, spans and assessments.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// TraceIDLength is the length of a W3C-compliant trace ID (32 hex chars = 16 bytes)
const TraceIDLength = 16

// SpanIDLength is the length of a W3C-compliant span ID (16 hex chars = 8 bytes)
const SpanIDLength = 8

var (
	traceIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)
	spanIDPattern  = regexp.MustCompile(`^[0-9a-f]{16}$`)
)

// NewTraceID generates a new W3C-compliant trace ID (32 hex characters)
func NewTraceID() string {
	buf := make([]byte, TraceIDLength)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to time-based ID if random fails
		return fmt.Sprintf("%016x%016x", time.Now().UnixNano(), time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// NewSpanID generates a new W3C-compliant span ID (16 hex characters)
func NewSpanID() string {
	buf := make([]byte, SpanIDLength)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%016x", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// NewUUID generates a new UUID v4
func NewUUID() string {
	return uuid.New().String()
}

// ValidateTraceID validates a trace ID format
func ValidateTraceID(id string) bool {
	return traceIDPattern.MatchString(id)
}

// ValidateSpanID validates a span ID format
func ValidateSpanID(id string) bool {
	return spanIDPattern.MatchString(id)
}
