package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoReturnsResult(t *testing.T) {
	p := NewPool(2)
	want := errors.New("boom")
	if err := p.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("err = %v", err)
	}
	if err := p.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatal(err)
	}
}

func TestDoBoundsConcurrency(t *testing.T) {
	const size = 2
	p := NewPool(size)

	var running, peak int32
	task := func() error {
		n := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	}

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() { errs <- p.Do(context.Background(), task) }()
	}
	for i := 0; i < 8; i++ {
		if err := <-errs; err != nil {
			t.Fatal(err)
		}
	}
	if peak > size {
		t.Fatalf("peak concurrency %d exceeds pool size %d", peak, size)
	}
}

func TestDoHonorsContext(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Do(ctx, func() error { return nil }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	close(release)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestDoRecoversPanic(t *testing.T) {
	p := NewPool(1)
	if err := p.Do(context.Background(), func() error { panic("bad") }); err == nil {
		t.Fatal("expected error from panicking task")
	}
	// the slot was released
	if err := p.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatal(err)
	}
}
