package template

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestImportLimiter_AcquireRelease(t *testing.T) {
	limiter := newImportLimiter(time.Second)
	ctx := context.Background()

	if err := limiter.acquire(ctx, "guitar_amp_case"); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	limiter.release("guitar_amp_case")

	// The slot must be reusable after release.
	if err := limiter.acquire(ctx, "guitar_amp_case"); err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	limiter.release("guitar_amp_case")
}

func TestImportLimiter_SameCodeTimesOut(t *testing.T) {
	limiter := newImportLimiter(100 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.acquire(ctx, "guitar_amp_case"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer limiter.release("guitar_amp_case")

	start := time.Now()
	err := limiter.acquire(ctx, "guitar_amp_case")
	elapsed := time.Since(start)

	if !errors.Is(err, ErrImportBusy) {
		t.Errorf("expected ErrImportBusy, got %v", err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timeout too fast: %v", elapsed)
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("timeout too slow: %v", elapsed)
	}
}

func TestImportLimiter_DifferentCodesDoNotContend(t *testing.T) {
	limiter := newImportLimiter(time.Second)
	ctx := context.Background()

	if err := limiter.acquire(ctx, "guitar_amp_case"); err != nil {
		t.Fatalf("acquire guitar_amp_case failed: %v", err)
	}
	defer limiter.release("guitar_amp_case")

	start := time.Now()
	if err := limiter.acquire(ctx, "keyboard_cover"); err != nil {
		t.Fatalf("acquire keyboard_cover failed: %v", err)
	}
	defer limiter.release("keyboard_cover")

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unrelated code blocked for %v", elapsed)
	}
}

func TestImportLimiter_ContextCancellation(t *testing.T) {
	limiter := newImportLimiter(5 * time.Second)

	if err := limiter.acquire(context.Background(), "guitar_amp_case"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer limiter.release("guitar_amp_case")

	cancelCtx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- limiter.acquire(cancelCtx, "guitar_amp_case")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("acquire did not return after context cancellation")
	}
}

func TestImportLimiter_UnblocksWaiter(t *testing.T) {
	limiter := newImportLimiter(time.Second)
	ctx := context.Background()

	if err := limiter.acquire(ctx, "guitar_amp_case"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := limiter.acquire(ctx, "guitar_amp_case"); err != nil {
			t.Errorf("waiting acquire failed: %v", err)
			return
		}
		close(acquired)
		limiter.release("guitar_amp_case")
	}()

	// Give the waiter time to block.
	time.Sleep(50 * time.Millisecond)
	limiter.release("guitar_amp_case")

	select {
	case <-acquired:
	case <-time.After(500 * time.Millisecond):
		t.Error("waiter did not acquire after release")
	}
}

func TestImportLimiter_ReleaseWithoutAcquireIsSafe(t *testing.T) {
	limiter := newImportLimiter(time.Second)

	// Must not panic or poison the slot.
	limiter.release("guitar_amp_case")

	if err := limiter.acquire(context.Background(), "guitar_amp_case"); err != nil {
		t.Fatalf("acquire after stray release failed: %v", err)
	}
	limiter.release("guitar_amp_case")
}
