package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "stayEase-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "stayEase-token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := s.Get(ctx, "stayEase-token"); err != nil || v != "abc" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	if err := s.Delete(ctx, "stayEase-token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "stayEase-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete: err = %v", err)
	}
	if err := s.Delete(ctx, "stayEase-token"); err != nil {
		t.Fatalf("Delete missing key: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	first, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(context.Background(), "stayEase-token", "persisted"); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := second.Get(context.Background(), "stayEase-token"); err != nil || v != "persisted" {
		t.Fatalf("Get = %q, %v", v, err)
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t)
	exerciseStore(t, s)
}

func TestRedisStoreUsesTokenExpiryAsTTL(t *testing.T) {
	s, mr := newRedisStore(t)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "guest@example.com",
		"exp":   now.Add(time.Hour).Unix(),
	}).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Set(context.Background(), "stayEase-token", token); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL(redisKeyPrefix + "stayEase-token"); ttl != time.Hour {
		t.Fatalf("TTL = %v, want 1h", ttl)
	}

	mr.FastForward(time.Hour + time.Second)
	if _, err := s.Get(context.Background(), "stayEase-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after expiry: err = %v", err)
	}
}

func TestRedisStoreDropsExpiredToken(t *testing.T) {
	s, _ := newRedisStore(t)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(-time.Minute).Unix(),
	}).SignedString([]byte("server-secret"))

	if err := s.Set(context.Background(), "stayEase-token", token); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Get(context.Background(), "stayEase-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired token was stored: err = %v", err)
	}
}
