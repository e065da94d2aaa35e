package llm

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestTokenCounter_Estimate(t *testing.T) {
	c := &TokenCounter{}

	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("abcd"))
	assert.Equal(t, 2, c.Count("abcde"))
	assert.Equal(t, 3, c.CountMessages([]Message{
		{Role: RoleUser, Content: "abcd"},
		{Role: RoleAssistant, Content: "abcdefgh"},
	}))
}

func TestTokenCounter_Nil(t *testing.T) {
	var c *TokenCounter
	assert.Equal(t, 1, c.Count("abc"))
}
