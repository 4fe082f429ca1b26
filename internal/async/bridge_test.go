package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGetReturnsSharedSingleton(t *testing.T) {
	a := Get()
	b := Get()
	if a != b {
		t.Fatalf("expected Get to return the same Bridge instance across calls")
	}
}

func TestRunReturnsResult(t *testing.T) {
	b := Get()
	v, err := Run(b, context.Background(), func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestRunPropagatesError(t *testing.T) {
	b := Get()
	wantErr := errors.New("boom")
	_, err := Run(b, context.Background(), func() (int, error) {
		return 0, wantErr
	})
	if err != wantErr {
		t.Fatalf("expected the function's error to propagate, got %v", err)
	}
}

func TestRunCancelledContextReturnsCtxErr(t *testing.T) {
	b := Get()
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	cancel() // cancel before the goroutine has any chance to finish
	go func() { close(started) }()
	<-started

	_, err := Run(b, ctx, func() (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunCancellableCompletesNormally(t *testing.T) {
	b := Get()
	done, errs, cancel := RunCancellable(b, func() (string, error) {
		return "ok", nil
	})
	defer cancel()

	select {
	case v := <-done:
		if v != "ok" {
			t.Fatalf("expected %q, got %q", "ok", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for RunCancellable to finish")
	}
	select {
	case err := <-errs:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for the error channel")
	}
}

func TestRunSerializesConcurrentCallsThroughOneWorker(t *testing.T) {
	b := Get()
	var active int
	var maxActive int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Run(b, context.Background(), func() (int, error) {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return 0, nil
			})
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("expected at most 1 job running at a time through the single worker, observed %d concurrently", maxActive)
	}
}

func TestRunCancellableCancelBlocksUntilDone(t *testing.T) {
	b := Get()
	release := make(chan struct{})
	_, _, cancel := RunCancellable(b, func() (int, error) {
		<-release
		return 1, nil
	})
	doneCancel := make(chan struct{})
	go func() {
		cancel()
		close(doneCancel)
	}()

	select {
	case <-doneCancel:
		t.Fatalf("expected cancel to block until the goroutine observes cancellation")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	select {
	case <-doneCancel:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for cancel to return")
	}
}
