package message

import (
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHuman(t *testing.T) {
	t.Parallel()

	m := NewHuman("hello")
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, RoleHuman, m.Role)
	assert.Equal(t, "hello", m.Text())
}

func TestMarkers(t *testing.T) {
	t.Parallel()

	m := NewAI("summary").WithMarker(SummarizedKey)
	assert.True(t, m.Marked(SummarizedKey))
	assert.False(t, m.Marked(HideFromUIKey))

	// A message may carry several markers at once.
	m = m.WithMarker(HideFromUIKey)
	assert.True(t, m.Marked(SummarizedKey))
	assert.True(t, m.Marked(HideFromUIKey))
}

func TestMarkedNestedKwargs(t *testing.T) {
	t.Parallel()

	m := NewAI("imported")
	m.Metadata = map[string]any{
		"additionalKwargs": map[string]any{HideFromUIKey: true},
	}
	assert.True(t, m.Marked(HideFromUIKey))
	assert.False(t, m.Marked(SummarizedKey))
}

func TestWithMarkerCopies(t *testing.T) {
	t.Parallel()

	orig := NewAI("x")
	marked := orig.WithMarker(HideFromUIKey)
	assert.False(t, orig.Marked(HideFromUIKey))
	assert.True(t, marked.Marked(HideFromUIKey))
}

func TestTextMultipleParts(t *testing.T) {
	t.Parallel()

	m := NewHumanParts([]*ai.Part{
		ai.NewTextPart("first"),
		ai.NewMediaPart("application/pdf", "data:application/pdf;base64,AAAA"),
		ai.NewTextPart("second"),
	})
	assert.Equal(t, "first\nsecond", m.Text())
}

func TestLastHuman(t *testing.T) {
	t.Parallel()

	msgs := []Message{
		NewHuman("one"),
		NewAI("reply"),
		NewHuman("two"),
		NewAI("reply again"),
	}
	last, ok := LastHuman(msgs)
	require.True(t, ok)
	assert.Equal(t, "two", last.Text())

	_, ok = LastHuman([]Message{NewAI("only ai")})
	assert.False(t, ok)

	_, ok = LastHuman(nil)
	assert.False(t, ok)
}

func TestToModelRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  Message
		want ai.Role
	}{
		{"human", NewHuman("h"), ai.RoleUser},
		{"ai", NewAI("a"), ai.RoleModel},
		{"system", Message{Role: RoleSystem, Parts: []*ai.Part{ai.NewTextPart("s")}}, ai.RoleSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.msg.ToModel().Role)
		})
	}
}

func TestTotalChars(t *testing.T) {
	t.Parallel()

	msgs := []Message{NewHuman("abcd"), NewAI("ef")}
	assert.Equal(t, 6, TotalChars(msgs))
	assert.Zero(t, TotalChars(nil))
}

func TestFormatRecent(t *testing.T) {
	t.Parallel()

	msgs := []Message{
		NewHuman("one"),
		NewAI("two"),
		NewHuman("three"),
		NewAI("four"),
	}
	got := FormatRecent(msgs, 3)
	assert.Equal(t, "ai: two\n\nhuman: three\n\nai: four", got)

	// Fewer messages than the window passes everything through.
	got = FormatRecent(msgs[:1], 3)
	assert.Equal(t, "human: one", got)
}

func TestFormatConversation(t *testing.T) {
	t.Parallel()

	got := FormatConversation([]Message{NewHuman("hi"), NewAI("hello")})
	assert.Equal(t, "<human>\nhi\n</human>\n\n<ai>\nhello\n</ai>", got)
}
