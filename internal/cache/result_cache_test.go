package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/learnpath/backend/internal/models"
)

func TestResultKey(t *testing.T) {
	if got, want := resultKey("u1", "python"), "learnpath:results:u1:python"; got != want {
		t.Errorf("resultKey() = %q, want %q", got, want)
	}
}

func TestNoopCache(t *testing.T) {
	var c ResultCache = NoopCache{}
	ctx := context.Background()

	if err := c.Set(ctx, &models.AnalysisResult{UserID: "u", Subject: "s"}); err != nil {
		t.Errorf("Set() error: %v", err)
	}
	got, err := c.Get(ctx, "u", "s")
	if err != nil || got != nil {
		t.Errorf("Get() = (%v, %v), want (nil, nil)", got, err)
	}
	if err := c.Delete(ctx, "u", "s"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
}

func TestRedisResultCache_UnreachableReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisResultCache(client, 0)
	if c.ttl != time.Hour {
		t.Errorf("default ttl = %v, want 1h", c.ttl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.Get(ctx, "u", "python"); err == nil {
		t.Error("Get() against unreachable redis returned nil error")
	}
}
