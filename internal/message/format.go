package message

import (
	"fmt"
	"strings"
)

// FormatRecent renders the last n messages as "role: text" paragraphs.
// Used by the routing engine's classification prompt.
func FormatRecent(msgs []Message, n int) string {
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Text()))
	}
	return strings.Join(lines, "\n\n")
}

// FormatConversation renders messages as role-tagged blocks for prompts
// that embed a conversation transcript.
func FormatConversation(msgs []Message) string {
	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		blocks = append(blocks, fmt.Sprintf("<%s>\n%s\n</%s>", m.Role, m.Text(), m.Role))
	}
	return strings.Join(blocks, "\n\n")
}
