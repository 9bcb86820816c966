package store

import (
	"context"
	"testing"
)

func TestLikeGetStartsAtZero(t *testing.T) {
	s := NewRedisLikeStore(setupTestRedis(t))
	ctx := context.Background()

	count, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	// Reading again does not disturb the counter
	count, err = s.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestLikeIncrement(t *testing.T) {
	s := NewRedisLikeStore(setupTestRedis(t))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := s.Increment(ctx)
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		if count != want {
			t.Errorf("count = %d, want %d", count, want)
		}
	}

	count, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestLikeIncrementWithoutPriorGet(t *testing.T) {
	s := NewRedisLikeStore(setupTestRedis(t))

	count, err := s.Increment(context.Background())
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
