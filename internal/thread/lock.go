package thread

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the thread's turn lock.
var ErrLocked = errors.New("thread: turn already in progress")

// TurnLock holds exclusive access to a thread for the duration of one
// turn, backed by an advisory file lock so concurrent CLI invocations
// against the same thread serialize.
type TurnLock struct {
	fl *flock.Flock
}

// AcquireTurnLock takes the per-thread lock, retrying until the context
// expires. dir is created if missing.
func AcquireTurnLock(ctx context.Context, dir, threadID string) (*TurnLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := filepath.Join(dir, sanitize(threadID)+".lock")
	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &TurnLock{fl: fl}, nil
}

// Release drops the lock.
func (l *TurnLock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release turn lock: %w", err)
	}
	return nil
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
