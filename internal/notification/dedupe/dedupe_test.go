package dedupe

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newDeduper(t *testing.T, ttl time.Duration) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDeduper(client, ttl), mr
}

func TestClaimOnlyOnce(t *testing.T) {
	d, _ := newDeduper(t, time.Hour)
	ctx := context.Background()

	first, err := d.Claim(ctx, "deal_closed:1:won")
	if err != nil || !first {
		t.Fatalf("first claim: ok=%v err=%v", first, err)
	}
	second, err := d.Claim(ctx, "deal_closed:1:won")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if second {
		t.Fatalf("expected second claim to be rejected")
	}
}

func TestReleaseAllowsRetry(t *testing.T) {
	d, _ := newDeduper(t, time.Hour)
	ctx := context.Background()

	if ok, _ := d.Claim(ctx, "k"); !ok {
		t.Fatalf("expected claim")
	}
	if err := d.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := d.Claim(ctx, "k"); !ok {
		t.Fatalf("expected claim after release")
	}
}

func TestClaimExpires(t *testing.T) {
	d, mr := newDeduper(t, time.Minute)
	ctx := context.Background()

	if ok, _ := d.Claim(ctx, "k"); !ok {
		t.Fatalf("expected claim")
	}
	mr.FastForward(2 * time.Minute)
	if ok, _ := d.Claim(ctx, "k"); !ok {
		t.Fatalf("expected claim after ttl")
	}
}
