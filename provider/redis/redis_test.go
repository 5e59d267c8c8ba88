package redis

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestNewDefaultsExpiry(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	p, err := New(Config{Client: rdb})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.expiry != DefaultExpiry {
		t.Fatalf("expiry=%v want %v", p.expiry, DefaultExpiry)
	}
}

func newTestRedis(t *testing.T, expiry time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	p, err := New(Config{
		Client:      goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
		CloseClient: true,
		Expiry:      expiry,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p, mr
}

func TestGetMiss(t *testing.T) {
	p, _ := newTestRedis(t, 0)
	got, ok, err := p.Get(context.Background(), "memo:r:1:1")
	if err != nil || ok || got != nil {
		t.Fatalf("expected clean miss, got=%x ok=%v err=%v", got, ok, err)
	}
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestRedis(t, 0)

	if ok, err := p.Set(ctx, "memo:r:125:25", []byte{1, 2, 3}, 1); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "memo:r:125:25")
	if err != nil || !ok || !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("Get: ok=%v err=%v got=%x", ok, err, got)
	}

	if err := p.Del(ctx, "memo:r:125:25"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if mr.Exists("memo:r:125:25") {
		t.Fatalf("key still present after Del")
	}
	if err := p.Del(ctx, "memo:r:125:25"); err != nil {
		t.Fatalf("Del of missing key: %v", err)
	}
}

func TestSetKeepsFirstValue(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestRedis(t, 0)

	if _, err := p.Set(ctx, "k", []byte("first"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ok, err := p.Set(ctx, "k", []byte("second"), 1); err != nil || !ok {
		t.Fatalf("second Set: ok=%v err=%v", ok, err)
	}
	got, err := mr.Get("k")
	if err != nil || got != "first" {
		t.Fatalf("stored %q err=%v want first", got, err)
	}
}

func TestSetAppliesExpiry(t *testing.T) {
	ctx := context.Background()

	p, mr := newTestRedis(t, 0)
	if _, err := p.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != DefaultExpiry {
		t.Fatalf("TTL=%v want %v", ttl, DefaultExpiry)
	}

	p, mr = newTestRedis(t, 5*time.Minute)
	if _, err := p.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != 5*time.Minute {
		t.Fatalf("TTL=%v want 5m", ttl)
	}

	mr.FastForward(6 * time.Minute)
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("entry outlived its expiry")
	}
}

func TestServerErrorPropagates(t *testing.T) {
	p, mr := newTestRedis(t, 0)
	mr.SetError("LOADING")
	defer mr.SetError("")

	if _, _, err := p.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected server error from Get")
	}
	if _, err := p.Set(context.Background(), "k", []byte("v"), 1); err == nil {
		t.Fatalf("expected server error from Set")
	}
}

func TestCloseOwnedClientTwice(t *testing.T) {
	p, _ := newTestRedis(t, 0)
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
