// Package thread persists conversation threads and serializes turn
// execution per thread.
package thread

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/store"
)

// NamespaceKind is the store namespace for thread records.
const NamespaceKind = "threads"

// Record is a persisted thread: its conversation histories, the current
// artifact, and display metadata.
type Record struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Messages  []message.Message `json:"messages"`
	Internal  []message.Message `json:"internalMessages"`
	Artifact  artifact.Artifact `json:"artifact"`
}

// Service loads and saves thread records.
type Service struct {
	store  store.Store
	logger log.Logger
}

// NewService creates a thread service.
func NewService(st store.Store, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{store: st, logger: logger.With("component", "thread")}
}

// New creates an unsaved thread record with a fresh id.
func (s *Service) New() *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load reads a thread. A missing thread returns store.ErrNotFound.
func (s *Service) Load(ctx context.Context, userID, threadID string) (*Record, error) {
	ns := store.Namespace{Kind: NamespaceKind, Owner: userID}
	raw, err := s.store.Get(ctx, ns, threadID)
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", threadID, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", threadID, err)
	}
	return &rec, nil
}

// Save writes the thread, stamping UpdatedAt.
func (s *Service) Save(ctx context.Context, userID string, rec *Record) error {
	rec.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode thread %s: %w", rec.ID, err)
	}
	ns := store.Namespace{Kind: NamespaceKind, Owner: userID}
	if err := s.store.Put(ctx, ns, rec.ID, raw); err != nil {
		return fmt.Errorf("save thread %s: %w", rec.ID, err)
	}
	return nil
}

// SetTitle updates and persists the thread title.
func (s *Service) SetTitle(ctx context.Context, userID string, rec *Record, title string) error {
	rec.Title = title
	return s.Save(ctx, userID, rec)
}

// Delete removes a thread.
func (s *Service) Delete(ctx context.Context, userID, threadID string) error {
	ns := store.Namespace{Kind: NamespaceKind, Owner: userID}
	if err := s.store.Delete(ctx, ns, threadID); err != nil {
		return fmt.Errorf("delete thread %s: %w", threadID, err)
	}
	return nil
}
