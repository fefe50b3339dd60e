package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koopa0/canvas/internal/state"
)

func TestDeterministicRoute(t *testing.T) {
	t.Parallel()

	codeSel := &state.CodeHighlight{StartCharIndex: 0, EndCharIndex: 4}
	textSel := &state.TextHighlight{MarkdownBlock: "para", SelectedText: "word"}

	tests := []struct {
		name string
		turn state.Turn
		want state.Route
		ok   bool
	}{
		{"no signals", state.Turn{}, "", false},
		{"highlighted code", state.Turn{HighlightedCode: codeSel}, state.RouteUpdateArtifact, true},
		{"highlighted text", state.Turn{HighlightedText: textSel}, state.RouteUpdateHighlightedText, true},
		{"language", state.Turn{Language: state.LanguageSpanish}, state.RouteRewriteArtifactTheme, true},
		{"reading level", state.Turn{ReadingLevel: state.ReadingLevelPhD}, state.RouteRewriteArtifactTheme, true},
		{"emojis", state.Turn{RegenerateWithEmojis: true}, state.RouteRewriteArtifactTheme, true},
		{"add comments", state.Turn{AddComments: true}, state.RouteRewriteCodeArtifactTheme, true},
		{"port language", state.Turn{PortLanguage: state.LangRust}, state.RouteRewriteCodeArtifactTheme, true},
		{"custom action", state.Turn{CustomQuickActionID: "action-1"}, state.RouteCustomAction, true},
		{"web search", state.Turn{WebSearchEnabled: true}, state.RouteWebSearch, true},

		{
			"highlighted code beats web search",
			state.Turn{HighlightedCode: codeSel, WebSearchEnabled: true},
			state.RouteUpdateArtifact, true,
		},
		{
			"highlighted code beats highlighted text",
			state.Turn{HighlightedCode: codeSel, HighlightedText: textSel},
			state.RouteUpdateArtifact, true,
		},
		{
			"highlighted text beats themes",
			state.Turn{HighlightedText: textSel, Language: state.LanguageFrench},
			state.RouteUpdateHighlightedText, true,
		},
		{
			"text theme beats code theme",
			state.Turn{Language: state.LanguageFrench, AddComments: true},
			state.RouteRewriteArtifactTheme, true,
		},
		{
			"code theme beats custom action",
			state.Turn{FixBugs: true, CustomQuickActionID: "action-1"},
			state.RouteRewriteCodeArtifactTheme, true,
		},
		{
			"custom action beats web search",
			state.Turn{CustomQuickActionID: "action-1", WebSearchEnabled: true},
			state.RouteCustomAction, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			route, ok := deterministicRoute(&tt.turn)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, route)
		})
	}
}
