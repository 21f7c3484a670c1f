package memoize

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCell_ComputesOnceWithinTTL(t *testing.T) {
	var calls int
	c := New(func() int {
		calls++
		return calls
	}, time.Minute)

	for i := 0; i < 5; i++ {
		if got := c.Get(); got != 1 {
			t.Fatalf("Get() = %d, want 1", got)
		}
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestCell_RecomputesAfterExpiry(t *testing.T) {
	var calls int
	c := New(func() int {
		calls++
		return calls
	}, 10*time.Millisecond)

	if got := c.Get(); got != 1 {
		t.Fatalf("first Get() = %d, want 1", got)
	}

	time.Sleep(25 * time.Millisecond)

	if got := c.Get(); got != 2 {
		t.Errorf("Get() after expiry = %d, want 2", got)
	}
}

func TestCell_ZeroTTLNeverExpires(t *testing.T) {
	var calls int
	c := New(func() int {
		calls++
		return calls
	}, 0)

	c.Get()
	time.Sleep(5 * time.Millisecond)
	c.Get()

	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestCell_Invalidate(t *testing.T) {
	var calls int
	c := New(func() int {
		calls++
		return calls
	}, time.Minute)

	c.Get()
	c.Invalidate()

	if got := c.Get(); got != 2 {
		t.Errorf("Get() after Invalidate() = %d, want 2", got)
	}
}

func TestCell_Concurrent(t *testing.T) {
	var calls atomic.Int32
	c := New(func() int {
		calls.Add(1)
		return 7
	}, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := c.Get(); got != 7 {
					t.Errorf("Get() = %d, want 7", got)
					return
				}
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("compute ran %d times, want 1", n)
	}
}
