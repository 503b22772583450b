package numeric

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in    string
		want  int64
		valid bool
	}{
		{"2021001", 2021001, true},
		{"  42 ", 42, true},
		{"-7", -7, true},
		{"12abc", 12, true},
		{"1234.9", 1234, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseInt(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny(t *testing.T) {
	v, ok := FromAny(int32(1234))
	assert.True(t, ok)
	assert.Equal(t, int64(1234), v)

	v, ok = FromAny(float64(99))
	assert.True(t, ok)
	assert.Equal(t, int64(99), v)

	_, ok = FromAny([]string{"1"})
	assert.False(t, ok)
}

func TestFromAnyJSONNumber(t *testing.T) {
	tests := []struct {
		in   json.Number
		want int64
	}{
		{"2021001", 2021001},
		{"2.021001e6", 2021001},
		{"2021001.0", 2021001},
		{"1234.9", 1234},
		{"-7", -7},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, ok := FromAny(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntUnmarshal(t *testing.T) {
	var body struct {
		UserID   Int `json:"userId"`
		Password Int `json:"password"`
		Missing  Int `json:"missing"`
		Bad      Int `json:"bad"`
	}
	err := json.Unmarshal([]byte(`{"userId": 2.021001e6, "password": "1234", "bad": "xyz"}`), &body)
	require.NoError(t, err)

	assert.Equal(t, Int{Value: 2021001, Present: true, Valid: true}, body.UserID)
	assert.Equal(t, Int{Value: 1234, Present: true, Valid: true}, body.Password)
	assert.False(t, body.Missing.Present)
	assert.True(t, body.Bad.Present)
	assert.False(t, body.Bad.Valid)

	out, err := json.Marshal(body.UserID)
	require.NoError(t, err)
	assert.Equal(t, "2021001", string(out))
}
