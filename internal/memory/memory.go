// Package memory manages the per-assistant reflection record: style rules
// and general facts the background reflection task accumulates, read by
// most handlers for prompt context.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/store"
)

const (
	// NamespaceKind is the store namespace kind for reflections.
	NamespaceKind = "memories"
	// Key is the single key the reflection record lives under.
	Key = "reflection"
)

// Reflections is the stored record.
type Reflections struct {
	StyleRules []string `json:"styleRules"`
	Content    []string `json:"content"`
}

// Empty reports whether nothing has been learned yet.
func (r Reflections) Empty() bool {
	return len(r.StyleRules) == 0 && len(r.Content) == 0
}

// Format renders reflections for inclusion in a prompt. With onlyContent
// set, style rules are omitted (the followup generator wants facts only).
func (r Reflections) Format(onlyContent bool) string {
	if r.Empty() {
		return "No reflections found."
	}
	var sb strings.Builder
	if !onlyContent && len(r.StyleRules) > 0 {
		sb.WriteString("<style-rules>\n")
		sb.WriteString(strings.Join(r.StyleRules, "\n"))
		sb.WriteString("\n</style-rules>")
	}
	if len(r.Content) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("<memories>\n")
		sb.WriteString(strings.Join(r.Content, "\n"))
		sb.WriteString("\n</memories>")
	}
	return sb.String()
}

// Service reads and writes reflections through the namespaced store.
type Service struct {
	store  store.Store
	logger log.Logger
}

// NewService creates a reflection memory service.
func NewService(s store.Store, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{store: s, logger: logger}
}

// Get loads the reflections for an assistant. A missing record is not an
// error; it returns an empty record and found=false.
func (s *Service) Get(ctx context.Context, assistantID string) (Reflections, bool, error) {
	ns := store.Namespace{Kind: NamespaceKind, Owner: assistantID}
	raw, err := s.store.Get(ctx, ns, Key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Reflections{}, false, nil
		}
		return Reflections{}, false, fmt.Errorf("load reflections for %s: %w", assistantID, err)
	}
	var r Reflections
	if err := json.Unmarshal(raw, &r); err != nil {
		return Reflections{}, false, fmt.Errorf("decode reflections for %s: %w", assistantID, err)
	}
	return r, true, nil
}

// Save replaces the reflections for an assistant.
func (s *Service) Save(ctx context.Context, assistantID string, r Reflections) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reflections: %w", err)
	}
	ns := store.Namespace{Kind: NamespaceKind, Owner: assistantID}
	if err := s.store.Put(ctx, ns, Key, raw); err != nil {
		return fmt.Errorf("save reflections for %s: %w", assistantID, err)
	}
	s.logger.Debug("saved reflections",
		"assistant_id", assistantID,
		"style_rules", len(r.StyleRules),
		"content", len(r.Content))
	return nil
}
