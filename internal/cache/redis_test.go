package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheFromClient(client), mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "otp:9876543210", "123456", 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "otp:9876543210")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "123456" {
		t.Errorf("Expected 123456, got %q", val)
	}
}

func TestGetMissingKeyReturnsEmpty(t *testing.T) {
	c, _ := setupTestCache(t)

	val, err := c.Get(context.Background(), "otp:0000000000")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected empty string for missing key, got %q", val)
	}
}

func TestExpiration(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "otp:9876543210", "123456", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	val, err := c.Get(ctx, "otp:9876543210")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected expired key to be empty, got %q", val)
	}
}

func TestDelAndExists(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k1", "v1", time.Minute)

	count, err := c.Exists(ctx, "k1")
	if err != nil || count != 1 {
		t.Fatalf("Expected k1 to exist, count=%d err=%v", count, err)
	}

	if err := c.Del(ctx, "k1"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}

	count, err = c.Exists(ctx, "k1")
	if err != nil || count != 0 {
		t.Errorf("Expected k1 to be gone, count=%d err=%v", count, err)
	}
}

func TestIncr(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		val, err := c.Incr(ctx, "otp_requests:9876543210")
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if val != int64(i) {
			t.Errorf("Expected counter %d, got %d", i, val)
		}
	}
}
