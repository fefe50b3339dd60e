package model

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// SplitThinking separates a reasoning span from the answer text. The span
// must open at the start of the output (after leading whitespace); an
// unterminated span consumes the rest of the text and leaves the answer
// empty. Text without a span is returned unchanged as the answer.
func SplitThinking(text string) (thinking, answer string) {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(trimmed, thinkOpen) {
		return "", text
	}
	body := trimmed[len(thinkOpen):]
	idx := strings.Index(body, thinkClose)
	if idx < 0 {
		return strings.TrimSpace(body), ""
	}
	thinking = strings.TrimSpace(body[:idx])
	answer = strings.TrimSpace(body[idx+len(thinkClose):])
	return thinking, answer
}
