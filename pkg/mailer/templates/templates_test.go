package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNewComment(t *testing.T) {
	data := ToMap(NotificationData{
		RecipientName: "Bob",
		ActorName:     "Alice W",
		ActorUsername: "alice",
		AppName:       "social",
		ActionURL:     "http://app.test/posts/1",
		Excerpt:       "<b>nice</b>",
	})

	subject, text, html, err := Render(NewComment, data)
	require.NoError(t, err)
	assert.Equal(t, "alice commented on your post", subject)
	assert.Contains(t, text, "<b>nice</b>")
	assert.Contains(t, html, "&lt;b&gt;nice&lt;/b&gt;")
}

func TestRenderTruncatesLongExcerpt(t *testing.T) {
	data := ToMap(NotificationData{ActorUsername: "alice", Excerpt: strings.Repeat("x", 300)})
	_, text, _, err := Render(NewComment, data)
	require.NoError(t, err)
	assert.Contains(t, text, strings.Repeat("x", 140)+"…")
	assert.NotContains(t, text, strings.Repeat("x", 141))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("login_otp", nil)
	assert.Error(t, err)
}
