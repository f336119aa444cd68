package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCreateOnAccess(t *testing.T) {
	s := NewStore()

	assert.Nil(t, s.PeekCart("a"), "no cart before first access")

	c := s.Cart("a")
	require.NotNil(t, c)
	assert.Same(t, c, s.Cart("a"), "same cart on repeat access")
	assert.Same(t, c, s.PeekCart("a"))
}

func TestDetailsCreateOnAccess(t *testing.T) {
	s := NewStore()

	assert.Nil(t, s.PeekDetails("a"))
	assert.True(t, s.PeekDetails("a").Empty(), "nil details count as empty")

	d := s.Details("a")
	d.Name = "Maya"
	assert.Equal(t, "Maya", s.Details("a").Name)
	assert.False(t, s.Details("a").Empty())
}

func TestClearDestroysCartAndDetailsTogether(t *testing.T) {
	s := NewStore()
	s.Cart("a").Add("sushi roll", 1)
	s.Details("a").Table = "4"
	s.Cart("b").Add("mochi", 1)

	s.Clear("a")

	assert.Nil(t, s.PeekCart("a"))
	assert.Nil(t, s.PeekDetails("a"))
	assert.NotNil(t, s.PeekCart("b"), "other sessions untouched")
}

func TestSessions(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Sessions())

	s.Cart("a")
	s.Details("a")
	s.Details("b")
	assert.Equal(t, 2, s.Sessions())
}

func TestIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"projects/panda-hinl/agent/sessions/web-user-session", "web-user-session"},
		{"projects/p/agent/sessions/abc-123", "abc-123"},
		{"projects/p/agent", "default"},
		{"", "default"},
		{"projects/p/agent/sessions/", "default"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IDFromPath(tt.path), "path %q", tt.path)
	}
}
