package otel_test

import (
	"testing"
	"time"

	"wsb/infras/otel"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestAttribute(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected attribute.Value
	}{
		{name: "bool", value: true, expected: attribute.BoolValue(true)},
		{name: "string", value: "room", expected: attribute.StringValue("room")},
		{name: "int", value: 7, expected: attribute.IntValue(7)},
		{name: "int64", value: int64(42), expected: attribute.Int64Value(42)},
		{name: "strings", value: []string{"a", "b"}, expected: attribute.StringSliceValue([]string{"a", "b"})},
		{
			name:     "time",
			value:    time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			expected: attribute.StringValue("2025-01-10T09:00:00Z"),
		},
		{name: "fallback", value: 1.5, expected: attribute.StringValue("1.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("key", tt.value)

			assert.Equal(t, attribute.Key("key"), kv.Key)
			assert.Equal(t, tt.expected, kv.Value)
		})
	}
}
