package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 30*time.Second, c.GenTimeout)
	assert.Equal(t, []string{"xlsx", "email", "slack"}, c.Sinks)
	assert.Equal(t, 5, c.DigestTopN)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SINKS", "slack, xlsx ,")
	t.Setenv("DIGEST_RECIPIENTS", "a@x.com,b@x.com")
	t.Setenv("GENAI_TIMEOUT_SECONDS", "10")

	c := Load()
	assert.Equal(t, []string{"slack", "xlsx"}, c.Sinks)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, c.DigestRecipients)
	assert.Equal(t, 10*time.Second, c.GenTimeout)
}

func TestSplitListEmpty(t *testing.T) {
	assert.Nil(t, splitList(""))
}
