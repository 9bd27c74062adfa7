package cache

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ChartCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client, err := Connect(context.Background(), fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewChartCache(client, ttl), mr
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	data, ok, err := c.Get(context.Background(), "1:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || data != nil {
		t.Fatalf("expected miss, got %v %q", ok, data)
	}
}

func TestSetThenGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	payload := []byte{0x89, 'P', 'N', 'G'}

	if err := c.Set(ctx, "1:abc", payload); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := c.Get(ctx, "1:abc")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("unexpected payload %q", data)
	}
	if ttl := mr.TTL(keyPrefix + "1:abc"); ttl != time.Minute {
		t.Fatalf("expected ttl of a minute, got %v", ttl)
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "2:def", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(ctx, "2:def"); err != nil || ok {
		t.Fatalf("expected expired entry, ok=%v err=%v", ok, err)
	}
}

func TestConnectRejectsBadURL(t *testing.T) {
	if _, err := Connect(context.Background(), "not a url"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}
