// Package artifact models the single versioned document a conversation
// collaborates on. Versions are append-only: every edit appends a new
// Content with the next index, never mutates one in place.
package artifact

import "fmt"

// Content is one immutable version of the artifact. It is a sealed sum
// type with exactly two variants, Code and Markdown; branch on it with a
// type switch and treat any other dynamic type as a programming error.
type Content interface {
	// ContentIndex is the 1-based version index.
	ContentIndex() int
	// ContentTitle is the display title carried by this version.
	ContentTitle() string
	// Body is the raw document body: source code or full markdown.
	Body() string

	sealed()
}

// Code is a code version of the artifact.
type Code struct {
	Index      int
	Title      string
	Language   string
	Code       string
	ValidReact bool
}

func (c Code) ContentIndex() int    { return c.Index }
func (c Code) ContentTitle() string { return c.Title }
func (c Code) Body() string         { return c.Code }
func (Code) sealed()                {}

// Markdown is a prose version of the artifact.
type Markdown struct {
	Index    int
	Title    string
	Markdown string
}

func (m Markdown) ContentIndex() int    { return m.Index }
func (m Markdown) ContentTitle() string { return m.Title }
func (m Markdown) Body() string         { return m.Markdown }
func (Markdown) sealed()                {}

// Artifact is the versioned document. The zero value is a valid empty
// artifact. Handlers receive it by value and return a replacement.
type Artifact struct {
	CurrentIndex int
	Contents     []Content
}

// Empty reports whether no version exists yet.
func (a Artifact) Empty() bool { return len(a.Contents) == 0 }

// NextIndex is the index the next appended version must carry.
func (a Artifact) NextIndex() int { return len(a.Contents) + 1 }

// Current returns the content whose index equals CurrentIndex. When no
// version matches, it falls back to the last version; this leniency is
// deliberate and uniform across every caller. Returns (nil, false) only
// for an empty artifact.
func (a Artifact) Current() (Content, bool) {
	for _, c := range a.Contents {
		if c.ContentIndex() == a.CurrentIndex {
			return c, true
		}
	}
	if len(a.Contents) > 0 {
		return a.Contents[len(a.Contents)-1], true
	}
	return nil, false
}

// Append returns a new Artifact with the content added as the newest
// version and CurrentIndex pointing at it. The content must carry
// NextIndex(); anything else indicates a handler bug.
func (a Artifact) Append(c Content) (Artifact, error) {
	if c.ContentIndex() != a.NextIndex() {
		return Artifact{}, fmt.Errorf("append version %d: want index %d", c.ContentIndex(), a.NextIndex())
	}
	contents := make([]Content, 0, len(a.Contents)+1)
	contents = append(contents, a.Contents...)
	contents = append(contents, c)
	return Artifact{CurrentIndex: c.ContentIndex(), Contents: contents}, nil
}

// New creates a one-version artifact from the given first content.
func New(c Content) Artifact {
	return Artifact{CurrentIndex: 1, Contents: []Content{c}}
}
