package state

import (
	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/web"
)

// CodeHighlight is a character range the user selected inside a code
// artifact.
type CodeHighlight struct {
	StartCharIndex int `json:"startCharIndex"`
	EndCharIndex   int `json:"endCharIndex"`
}

// TextHighlight is a selection inside a text artifact: the enclosing
// markdown block, the plain selected text, and the document it came from.
type TextHighlight struct {
	FullMarkdown  string `json:"fullMarkdown"`
	MarkdownBlock string `json:"markdownBlock"`
	SelectedText  string `json:"selectedText"`
}

// Turn is the record threaded through one graph execution. Messages and
// Internal are the two histories; everything from HighlightedCode down is
// transient per-turn input that ResetTransient clears.
type Turn struct {
	Messages []message.Message
	Internal []message.Message
	Artifact artifact.Artifact
	Next     Route

	HighlightedCode *CodeHighlight
	HighlightedText *TextHighlight

	Language             Language
	ArtifactLength       ArtifactLength
	RegenerateWithEmojis bool
	ReadingLevel         ReadingLevel

	AddComments  bool
	AddLogs      bool
	PortLanguage ProgrammingLanguage
	FixBugs      bool

	CustomQuickActionID string

	WebSearchEnabled bool
	WebSearchResults []web.SearchResult
}

// ResetTransient clears every transient flag back to its default. It does
// not touch the histories or the artifact. Calling it on an already-clean
// turn is a no-op, so the reset step is idempotent.
func (t *Turn) ResetTransient() {
	t.Next = ""
	t.HighlightedCode = nil
	t.HighlightedText = nil
	t.Language = ""
	t.ArtifactLength = ""
	t.RegenerateWithEmojis = false
	t.ReadingLevel = ""
	t.AddComments = false
	t.AddLogs = false
	t.PortLanguage = ""
	t.FixBugs = false
	t.CustomQuickActionID = ""
	t.WebSearchEnabled = false
	t.WebSearchResults = nil
}

// Delta is the partial-state update a handler returns. Histories receive
// the listed messages through the merge reducers; Remove drops messages by
// id from both histories before the appends; a non-nil Artifact replaces
// the turn's artifact wholesale.
type Delta struct {
	Messages []message.Message
	Internal []message.Message
	Remove   []string
	Artifact *artifact.Artifact
	Next     Route
}

// Apply folds a delta into the turn. The visible history is plain append;
// the internal history goes through the compaction-aware merge.
func (t *Turn) Apply(d Delta) {
	if len(d.Remove) > 0 {
		t.Messages = message.Remove(t.Messages, d.Remove)
		t.Internal = message.Remove(t.Internal, d.Remove)
	}
	t.Messages = append(t.Messages, d.Messages...)
	t.Internal = message.Merge(t.Internal, d.Internal)
	if d.Artifact != nil {
		t.Artifact = *d.Artifact
	}
	if d.Next != "" {
		t.Next = d.Next
	}
}
