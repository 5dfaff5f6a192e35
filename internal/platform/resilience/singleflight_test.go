package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do("standings:majors", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if v != "ok" {
				t.Errorf("unexpected value %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_ReleasesKeyAfterPanic(t *testing.T) {
	var g SingleFlight[int]

	func() {
		defer func() { _ = recover() }()
		_, _, _ = g.Do("k", func() (int, error) { panic("boom") })
	}()

	v, err, shared := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || v != 7 || shared {
		t.Fatalf("expected fresh call after panic, got v=%d err=%v shared=%v", v, err, shared)
	}
}

func TestInFlight_TryAcquire(t *testing.T) {
	var f InFlight

	if !f.TryAcquire("a") {
		t.Fatalf("expected first acquire to succeed")
	}
	if f.TryAcquire("a") {
		t.Fatalf("expected second acquire to fail while busy")
	}
	if !f.TryAcquire("b") {
		t.Fatalf("expected other key to be independent")
	}

	f.Release("a")
	if !f.TryAcquire("a") {
		t.Fatalf("expected acquire after release")
	}
}
