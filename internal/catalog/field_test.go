package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDiscDesignator(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantNumber int
		wantTotal  int
	}{
		{"absent", ``, 0, 0},
		{"null", `null`, 0, 0},
		{"number and total", `"1/2"`, 1, 2},
		{"bare string", `"2"`, 2, 0},
		{"integer", `3`, 3, 0},
		{"malformed", `"abc"`, 0, 0},
		{"malformed total", `"1/x"`, 1, 0},
		{"malformed number", `"x/2"`, 0, 2},
		{"leading zero", `"01/02"`, 1, 2},
		{"float", `1.5`, 0, 0},
		{"negative", `-1`, 0, 0},
		{"empty string", `""`, 0, 0},
		{"object", `{"n":1}`, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, total := ParseDiscDesignator(Field(tt.raw))
			assert.Equal(t, tt.wantNumber, number, "number")
			assert.Equal(t, tt.wantTotal, total, "total")
		})
	}
}

func TestField_IsEmpty(t *testing.T) {
	empty := []string{``, `null`, `false`, `0`, `""`, `[]`, `{}`, `not json`}
	for _, raw := range empty {
		assert.True(t, Field(raw).IsEmpty(), "%q should be empty", raw)
	}

	filled := []string{`true`, `1`, `"a"`, `["a"]`, `{"a":1}`}
	for _, raw := range filled {
		assert.False(t, Field(raw).IsEmpty(), "%q should not be empty", raw)
	}
}

func TestField_Strings(t *testing.T) {
	assert.Equal(t, []string{"one"}, Field(`"one"`).Strings())
	assert.Equal(t, []string{"a", "b"}, Field(`["a", "", 3, null, "b"]`).Strings())
	assert.Nil(t, Field(`""`).Strings())
	assert.Nil(t, Field(`42`).Strings())
	assert.Nil(t, Field(``).Strings())
}

func TestField_Int(t *testing.T) {
	n, ok := Field(`1609459200000`).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(1609459200000), n)

	_, ok = Field(`"12"`).Int()
	assert.False(t, ok, "numeric string is not an integer")

	_, ok = Field(`1.25`).Int()
	assert.False(t, ok, "float is not an integer")
}
