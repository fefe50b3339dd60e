package message

// Merge folds incoming messages into an existing history.
//
// The rule is plain append with one exception: when the last incoming
// message carries the summarized marker, the existing history is discarded
// and the incoming messages become the new base. The summarizer always
// produces exactly one trailing summary message, so only the last element
// is checked; a summary marker on a non-terminal element is ignored on
// purpose.
func Merge(existing, incoming []Message) []Message {
	if len(incoming) == 0 {
		return existing
	}
	if incoming[len(incoming)-1].Marked(SummarizedKey) {
		return append([]Message(nil), incoming...)
	}
	merged := make([]Message, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	return merged
}

// Remove returns the history without the messages whose ids are listed.
// Used when a context-document message is rewritten for a new provider.
func Remove(msgs []Message, ids []string) []Message {
	if len(ids) == 0 {
		return msgs
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if _, gone := drop[m.ID]; !gone {
			kept = append(kept, m)
		}
	}
	return kept
}
