package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowField(t *testing.T) {
	r := Row{"a", "b", "c"}

	v, ok := r.Field(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = r.Field(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok = r.Field(4)
	assert.False(t, ok, "past the end")

	_, ok = r.Field(0)
	assert.False(t, ok, "column refs are 1-based")
}

func TestRowEqual(t *testing.T) {
	assert.True(t, Row{"1", "x"}.Equal(Row{"1", "x"}))
	assert.False(t, Row{"1", "x"}.Equal(Row{"x", "1"}), "order matters")
	assert.False(t, Row{"1"}.Equal(Row{"1", ""}), "length matters")
	assert.True(t, Row{}.Equal(Row{}))
}

func TestRowKey(t *testing.T) {
	// Naive joining would make these collide.
	a := Row{"a\tb", "c"}
	b := Row{"a", "b\tc"}
	assert.NotEqual(t, a.Key(), b.Key())

	assert.Equal(t, Row{"1", "2"}.Key(), Row{"1", "2"}.Key())
	assert.NotEqual(t, Row{"12"}.Key(), Row{"1", "2"}.Key())
}

func TestParseKey(t *testing.T) {
	rows := []Row{
		{},
		{""},
		{"1", "2"},
		{"a:b", "12:x", ""},
		{"caf\xe9", "\xff\xfe"},
	}
	for _, row := range rows {
		got, err := ParseKey(row.Key())
		require.NoError(t, err)
		assert.True(t, row.Equal(got), "round trip of %q gave %q", []string(row), []string(got))
	}
}

func TestParseKeyErrors(t *testing.T) {
	for _, key := range []string{"3", "x:a", "5:abc", "-1:"} {
		_, err := ParseKey(key)
		assert.Error(t, err, "key %q", key)
	}
}
