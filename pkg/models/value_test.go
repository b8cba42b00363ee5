package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_StringAndJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		wantText string
		wantJSON string
	}{
		{"number", Number(1.5), "1.5", "1.5"},
		{"integer valued", Number(3), "3", "3"},
		{"text", Text("Na+"), "Na+", `"Na+"`},
		{"null", Null(), "", "null"},
		{"zero value is null", Value{}, "", "null"},
		{"nan encodes as null", Number(math.NaN()), "NaN", "null"},
		{"infinity encodes as null", Number(math.Inf(-1)), "-Inf", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantText, tt.value.String())
			b, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(b))
		})
	}
}

func TestRepeatAndNumbers(t *testing.T) {
	assert.Equal(t, []Value{Text("x"), Text("x"), Text("x")}, Repeat(Text("x"), 3))
	assert.Empty(t, Repeat(Number(1), 0))
	assert.Equal(t, []Value{Number(1), Number(2)}, Numbers([]float64{1, 2}))
	assert.True(t, Value{}.IsNull())
	assert.True(t, Number(0).IsNumber())
}
