package otp

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^[1-9]\d{5}$`)
	for i := 0; i < 100; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q is not a 6-digit code in [100000, 999999]", code)
		}
	}
}

func TestVerifySingleUse(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Store("+15551234567", "123456"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if err := s.Verify("+15551234567", "123456"); err != nil {
		t.Fatalf("first Verify: %v", err)
	}

	if err := s.Verify("+15551234567", "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Verify = %v, want ErrNotFound", err)
	}
}

func TestVerifyUnknownPhone(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Verify("+15550000000", "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want ErrNotFound", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	s := NewMemoryStore()
	current := time.Now()
	s.now = func() time.Time { return current }

	if err := s.Store("+15551234567", "123456"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	current = current.Add(codeTTL + time.Second)

	// Expiry wins even with the correct code, and removes the entry.
	if err := s.Verify("+15551234567", "123456"); !errors.Is(err, ErrExpired) {
		t.Fatalf("Verify = %v, want ErrExpired", err)
	}
	if err := s.Verify("+15551234567", "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify after expiry delete = %v, want ErrNotFound", err)
	}
}

func TestVerifyMismatchRetainsEntry(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Store("+15551234567", "123456"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if err := s.Verify("+15551234567", "000000"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("Verify = %v, want ErrMismatch", err)
	}

	// The caller may retry with the right code.
	if err := s.Verify("+15551234567", "123456"); err != nil {
		t.Fatalf("retry Verify: %v", err)
	}
}

func TestStoreOverwrites(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Store("+15551234567", "111111"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := s.Store("+15551234567", "222222"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if err := s.Verify("+15551234567", "111111"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("Verify old code = %v, want ErrMismatch", err)
	}
	if err := s.Verify("+15551234567", "222222"); err != nil {
		t.Fatalf("Verify new code: %v", err)
	}
}

func TestVerifyConcurrentSingleConsumption(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Store("+15551234567", "123456"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	const workers = 32
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Verify("+15551234567", "123456")
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrNotFound) {
			t.Fatalf("unexpected verify error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("code consumed %d times, want exactly once", successes)
	}
}
