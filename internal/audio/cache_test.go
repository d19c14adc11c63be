package audio

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachedProvider(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	inner := &mockProvider{name: "mock", data: []byte("audio")}

	cached, err := NewCachedProvider(inner, dir, "salt")
	if err != nil {
		t.Fatalf("NewCachedProvider() error = %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		data, err := cached.Synthesize(ctx, "Я хочу читать.")
		if err != nil {
			t.Fatalf("Synthesize() error = %v", err)
		}
		if string(data) != "audio" {
			t.Errorf("Synthesize() = %q, want audio", data)
		}
	}

	if inner.calls != 1 {
		t.Errorf("Expected 1 backend call, got %d", inner.calls)
	}
	hits, misses := cached.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses; want 2, 1", hits, misses)
	}
}

func TestCachedProviderPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cached, err := NewCachedProvider(&mockProvider{name: "mock"}, dir, "salt")
	if err != nil {
		t.Fatalf("NewCachedProvider() error = %v", err)
	}
	defer cached.Close()

	path1 := cached.path("читать")
	if !strings.HasPrefix(path1, dir) || !strings.HasSuffix(path1, ".mp3") {
		t.Errorf("unexpected cache path %s", path1)
	}
	if path1 != cached.path("читать") {
		t.Error("Same input should produce same cache path")
	}
	if path1 == cached.path("писать") {
		t.Error("Different input should produce different cache path")
	}

	cached.salt = "other"
	if path1 == cached.path("читать") {
		t.Error("Different salt should produce different cache path")
	}
}

func TestCachedProviderErrorsNotCached(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	inner := &mockProvider{name: "mock", synthErr: errors.New("boom")}
	cached, err := NewCachedProvider(inner, dir, "salt")
	if err != nil {
		t.Fatalf("NewCachedProvider() error = %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	if _, err := cached.Synthesize(ctx, "читать"); err == nil {
		t.Fatal("Expected error from backend")
	}

	inner.synthErr = nil
	inner.data = []byte("ok")
	data, err := cached.Synthesize(ctx, "читать")
	if err != nil || string(data) != "ok" {
		t.Errorf("Synthesize() = %q, %v", data, err)
	}
	if inner.calls != 2 {
		t.Errorf("Expected 2 backend calls, got %d", inner.calls)
	}
}

func TestCachedProviderLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	first, err := NewCachedProvider(&mockProvider{name: "mock"}, dir, "salt")
	if err != nil {
		t.Fatalf("NewCachedProvider() error = %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := NewCachedProvider(&mockProvider{name: "mock"}, dir, "salt")
	if err != nil {
		t.Fatalf("NewCachedProvider() after Close error = %v", err)
	}
	second.Close()
}
