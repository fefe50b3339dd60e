package artifact

import (
	"fmt"
	"unicode/utf8"
)

// shortenCutoff bounds artifact bodies embedded in metadata prompts.
const shortenCutoff = 500

// Format renders a content version for inclusion in a prompt. Code is
// fenced with its language; markdown is passed through as-is. When shorten
// is set the body is truncated at a rune boundary, which is enough for
// metadata-only model calls.
func Format(c Content, shorten bool) string {
	body := c.Body()
	if shorten && len(body) > shortenCutoff {
		cut := shortenCutoff
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	switch v := c.(type) {
	case Code:
		return fmt.Sprintf("```%s\n%s\n```", v.Language, body)
	default:
		return body
	}
}
