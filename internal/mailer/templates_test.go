package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeEmail(t *testing.T) {
	subject, html, err := WelcomeEmail("Mario")
	require.NoError(t, err)
	assert.Equal(t, "Benvenuto su StriveBlog!", subject)
	assert.Contains(t, html, "Ciao Mario!")
}

func TestPostPublishedEmail(t *testing.T) {
	subject, html, err := PostPublishedEmail("Mario", "Go", "Hello <script>alert(1)</script> world")
	require.NoError(t, err)
	assert.Equal(t, "Hai pubblicato un nuovo articolo!", subject)
	assert.Contains(t, html, "<strong>Go</strong>")
	assert.NotContains(t, html, "<script>")
}

func TestPostPublishedEmailExcerpt(t *testing.T) {
	_, html, err := PostPublishedEmail("Mario", "Long", strings.Repeat("a", excerptLength+50))
	require.NoError(t, err)
	assert.Contains(t, html, strings.Repeat("a", excerptLength)+"…")
	assert.NotContains(t, html, strings.Repeat("a", excerptLength+1))
}
