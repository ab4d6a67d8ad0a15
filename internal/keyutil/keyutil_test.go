package keyutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{".", ""},
		{"/", ""},
		{"cache", "cache"},
		{"/cache/", "cache"},
		{"cache\\changelog", "cache/changelog"},
		{"cache//nested/../changelog", "cache/changelog"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePrefix(tt.input))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "changelog/cube/1.json", Join("", "changelog/cube/1.json"))
	assert.Equal(t, "env/changelog/cube/1.json", Join("env", "/changelog/cube/1.json"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("changelog/cube/1.json"))
	assert.True(t, Valid("card.json"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("/abs.json"))
	assert.False(t, Valid("dir/"))
	assert.False(t, Valid("a//b"))
	assert.False(t, Valid("a/../b"))
	assert.False(t, Valid("./a"))
}
