package template

// limiter.go serializes imports per product code.
//
// Re-import is a destructive replace, so two concurrent imports for the same
// code would race on the delete/insert swap. The limiter hands out one slot
// per product code; a second import for the same code waits up to maxWait
// before failing with ErrImportBusy. Different codes proceed in parallel.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrImportBusy is returned when an import for the same product code is
// already running and the wait timeout expires.
var ErrImportBusy = errors.New("an import for this product code is already in progress")

// DefaultImportMaxWait is how long a second import waits for the running one
// to finish before being rejected.
const DefaultImportMaxWait = 30 * time.Second

// importLimiter grants one import slot per product code.
type importLimiter struct {
	maxWait time.Duration

	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newImportLimiter(maxWait time.Duration) *importLimiter {
	if maxWait <= 0 {
		maxWait = DefaultImportMaxWait
	}
	return &importLimiter{
		maxWait: maxWait,
		slots:   make(map[string]chan struct{}),
	}
}

// acquire takes the slot for code, waiting up to maxWait. The caller MUST
// call release(code) when the import completes (use defer).
func (l *importLimiter) acquire(ctx context.Context, code string) error {
	l.mu.Lock()
	slot, ok := l.slots[code]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[code] = slot
	}
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case slot <- struct{}{}:
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrImportBusy
	}
}

// release frees the slot for code.
func (l *importLimiter) release(code string) {
	l.mu.Lock()
	slot := l.slots[code]
	l.mu.Unlock()
	if slot == nil {
		return
	}
	select {
	case <-slot:
	default:
	}
}
