package artifact

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyAndNew(t *testing.T) {
	t.Parallel()

	var a Artifact
	assert.True(t, a.Empty())
	assert.Equal(t, 1, a.NextIndex())

	_, ok := a.Current()
	assert.False(t, ok)

	a = New(Markdown{Index: 1, Title: "Essay", Markdown: "# Hello"})
	assert.False(t, a.Empty())
	assert.Equal(t, 1, a.CurrentIndex)
	assert.Equal(t, 2, a.NextIndex())
}

func TestCurrentFallsBackToLast(t *testing.T) {
	t.Parallel()

	a := New(Markdown{Index: 1, Title: "v1", Markdown: "one"})
	a, err := a.Append(Markdown{Index: 2, Title: "v2", Markdown: "two"})
	require.NoError(t, err)

	// A stale pointer falls back to the newest version.
	a.CurrentIndex = 99
	current, ok := a.Current()
	require.True(t, ok)
	assert.Equal(t, "v2", current.ContentTitle())
}

func TestAppendEnforcesNextIndex(t *testing.T) {
	t.Parallel()

	a := New(Code{Index: 1, Title: "prog", Language: "go", Code: "package main"})

	_, err := a.Append(Code{Index: 3, Title: "skip", Language: "go", Code: "x"})
	require.Error(t, err)

	a, err = a.Append(Code{Index: 2, Title: "next", Language: "go", Code: "y"})
	require.NoError(t, err)
	assert.Equal(t, 2, a.CurrentIndex)
	assert.Len(t, a.Contents, 2)
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	a := New(Markdown{Index: 1, Title: "v1", Markdown: "one"})
	b, err := a.Append(Markdown{Index: 2, Title: "v2", Markdown: "two"})
	require.NoError(t, err)

	assert.Len(t, a.Contents, 1)
	assert.Len(t, b.Contents, 2)
	assert.Equal(t, 1, a.CurrentIndex)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	code := Code{Index: 1, Language: "python", Code: "print('hi')"}
	assert.Equal(t, "```python\nprint('hi')\n```", Format(code, false))

	md := Markdown{Index: 1, Markdown: "# Title"}
	assert.Equal(t, "# Title", Format(md, false))

	long := Markdown{Index: 1, Markdown: strings.Repeat("a", 600)}
	shortened := Format(long, true)
	assert.Len(t, shortened, shortenCutoff+3)
	assert.True(t, strings.HasSuffix(shortened, "..."))

	// Multibyte bodies are cut at a rune boundary, never mid-rune.
	multibyte := Markdown{Index: 1, Markdown: strings.Repeat("界", 200)}
	shortened = Format(multibyte, true)
	assert.True(t, utf8.ValidString(shortened))
	assert.True(t, strings.HasSuffix(shortened, "..."))
	assert.LessOrEqual(t, len(shortened), shortenCutoff+3)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	a := New(Markdown{Index: 1, Title: "Essay", Markdown: "# Hello"})
	a, err := a.Append(Code{Index: 2, Title: "Port", Language: "go", Code: "package main", ValidReact: false})
	require.NoError(t, err)

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var back Artifact
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a.CurrentIndex, back.CurrentIndex)
	require.Len(t, back.Contents, 2)
	assert.IsType(t, Markdown{}, back.Contents[0])
	assert.IsType(t, Code{}, back.Contents[1])
	assert.Equal(t, "package main", back.Contents[1].Body())
}

func TestUnmarshalUnknownType(t *testing.T) {
	t.Parallel()

	raw := `{"currentIndex":1,"contents":[{"index":1,"type":"image"}]}`
	var a Artifact
	assert.Error(t, json.Unmarshal([]byte(raw), &a))
}
