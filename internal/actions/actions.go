// Package actions loads user-defined quick actions from the namespaced
// store. An action is a custom rewrite instruction plus flags controlling
// which context blocks its prompt receives.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/koopa0/canvas/internal/store"
)

const (
	// NamespaceKind is the store namespace kind for custom actions.
	NamespaceKind = "custom_actions"
	// Key is the single key the action map lives under per user.
	Key = "actions"
)

// ErrNotFound is returned when the requested action id does not resolve.
var ErrNotFound = errors.New("actions: not found")

// CustomQuickAction is a user-defined rewrite operation.
type CustomQuickAction struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Prompt               string `json:"prompt"`
	IncludeReflections   bool   `json:"includeReflections"`
	IncludePrefix        bool   `json:"includePrefix"`
	IncludeRecentHistory bool   `json:"includeRecentHistory"`
}

// All returns the user's full action map. A missing record is not an
// error; it returns an empty map.
func All(ctx context.Context, s store.Store, userID string) (map[string]CustomQuickAction, error) {
	ns := store.Namespace{Kind: NamespaceKind, Owner: userID}
	raw, err := s.Get(ctx, ns, Key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return map[string]CustomQuickAction{}, nil
		}
		return nil, fmt.Errorf("load custom actions for %s: %w", userID, err)
	}
	var all map[string]CustomQuickAction
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("decode custom actions for %s: %w", userID, err)
	}
	return all, nil
}

// Load resolves one action by id from the user's action map. Returns
// ErrNotFound when either the map or the id is absent.
func Load(ctx context.Context, s store.Store, userID, actionID string) (CustomQuickAction, error) {
	all, err := All(ctx, s, userID)
	if err != nil {
		return CustomQuickAction{}, err
	}
	action, ok := all[actionID]
	if !ok {
		return CustomQuickAction{}, fmt.Errorf("%w: %s", ErrNotFound, actionID)
	}
	return action, nil
}

// Save stores the full action map for a user.
func Save(ctx context.Context, s store.Store, userID string, all map[string]CustomQuickAction) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode custom actions: %w", err)
	}
	ns := store.Namespace{Kind: NamespaceKind, Owner: userID}
	if err := s.Put(ctx, ns, Key, raw); err != nil {
		return fmt.Errorf("save custom actions for %s: %w", userID, err)
	}
	return nil
}
