// Package message defines the conversation message type shared by the
// visible and internal histories, together with the merge reducer that
// governs how new messages fold into an existing history.
package message

import (
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// Marker keys carried in message metadata. Markers are additive metadata,
// not message types: a message may carry any combination.
const (
	// SummarizedKey marks the single message produced by the summarizer.
	// When it arrives as the tail of an internal-history update, the whole
	// existing internal history is replaced (see Merge).
	SummarizedKey = "canvas:summarized"

	// HideFromUIKey marks messages that belong to the internal history
	// only, such as synthesized context-document messages.
	HideFromUIKey = "canvas:hideFromUI"

	// WebSearchResultsKey marks the synthetic message that embeds web
	// search results ahead of a generate/rewrite route.
	WebSearchResultsKey = "canvas:webSearchResults"
)

// additionalKwargsKey is the nested metadata shape some serialized payloads
// use. Marker lookups honor it for compatibility with state snapshots
// written by other runtimes.
const additionalKwargsKey = "additionalKwargs"

// Message is one entry in either history. Content is a list of parts
// (text, media, data blocks); Metadata carries the marker flags.
type Message struct {
	ID       string         `json:"id"`
	Role     Role           `json:"role"`
	Parts    []*ai.Part     `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewHuman creates a human message with a fresh id and plain text content.
func NewHuman(text string) Message {
	return Message{
		ID:    uuid.NewString(),
		Role:  RoleHuman,
		Parts: []*ai.Part{ai.NewTextPart(text)},
	}
}

// NewAI creates an assistant message with a fresh id and plain text content.
func NewAI(text string) Message {
	return Message{
		ID:    uuid.NewString(),
		Role:  RoleAI,
		Parts: []*ai.Part{ai.NewTextPart(text)},
	}
}

// NewHumanParts creates a human message from pre-built content parts.
func NewHumanParts(parts []*ai.Part) Message {
	return Message{
		ID:    uuid.NewString(),
		Role:  RoleHuman,
		Parts: parts,
	}
}

// WithMarker returns a copy of the message carrying the given marker.
func (m Message) WithMarker(key string) Message {
	meta := make(map[string]any, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		meta[k] = v
	}
	meta[key] = true
	m.Metadata = meta
	return m
}

// Marked reports whether the message carries the given marker. Both the
// direct metadata shape and the nested additionalKwargs shape are honored.
func (m Message) Marked(key string) bool {
	if m.Metadata == nil {
		return false
	}
	if v, ok := m.Metadata[key].(bool); ok && v {
		return true
	}
	if nested, ok := m.Metadata[additionalKwargsKey].(map[string]any); ok {
		if v, ok := nested[key].(bool); ok && v {
			return true
		}
	}
	return false
}

// Text concatenates all text parts of the message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.IsText() {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// ToModel converts the message to a genkit model message. The system role
// maps to ai.RoleSystem; marker metadata is not forwarded to providers.
func (m Message) ToModel() *ai.Message {
	var role ai.Role
	switch m.Role {
	case RoleHuman:
		role = ai.RoleUser
	case RoleSystem:
		role = ai.RoleSystem
	default:
		role = ai.RoleModel
	}
	return &ai.Message{Role: role, Content: m.Parts}
}

// ToModelMessages converts a history slice for a generate call.
func ToModelMessages(msgs []Message) []*ai.Message {
	out := make([]*ai.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ToModel())
	}
	return out
}

// LastHuman returns the most recent human message, scanning backwards.
func LastHuman(msgs []Message) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleHuman {
			return msgs[i], true
		}
	}
	return Message{}, false
}

// TotalChars sums the text length of all messages. Used as the token-budget
// approximation that triggers summarization.
func TotalChars(msgs []Message) int {
	total := 0
	for _, m := range msgs {
		total += len(m.Text())
	}
	return total
}
