package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownKeys(t *testing.T) {
	for _, key := range []string{"score-batch", "job-reason", "final-answer"} {
		prompt, err := Get("recommend.json", key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("recommend.json", "no-such-prompt")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "score-batch")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("user asked {{.Query}} about {{.Topic}}", map[string]string{
		"Query": "quiet work",
		"Topic": "gigs",
	})
	assert.Equal(t, "user asked quiet work about gigs", out)
}

func TestScoreBatchPromptHasPlaceholders(t *testing.T) {
	prompt := MustGet("recommend.json", "score-batch")
	for _, placeholder := range []string{"{{.Query}}", "{{.UserProfile}}", "{{.Candidates}}"} {
		assert.True(t, strings.Contains(prompt, placeholder), placeholder)
	}
}
