package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matroid/matroid-cli/internal/cache"
)

func TestStore_PutAndGet(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStore(dir, "detectors", "https://app.matroid.com/api/v1")

	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	items := []item{{ID: "d1", Name: "Faces"}, {ID: "d2", Name: "Vehicles"}}
	s.Put(items)

	var got []item
	ok := s.Get(&got)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Name != "Faces" || got[1].Name != "Vehicles" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestStore_ExpiredTTL(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStoreWithTTL(dir, "detectors", "https://app.matroid.com/api/v1", 1*time.Millisecond)

	s.Put([]string{"a"})
	time.Sleep(5 * time.Millisecond)

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestStore_MissOnEmpty(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStore(dir, "detectors", "https://app.matroid.com/api/v1")

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss on empty store")
	}
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStore(dir, "detectors", "https://app.matroid.com/api/v1")

	s.Put([]string{"a"})
	s.Clear()

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss after clear")
	}
}

func TestStore_DifferentServers(t *testing.T) {
	dir := t.TempDir()
	s1 := cache.NewStore(dir, "detectors", "https://app.matroid.com/api/v1")
	s2 := cache.NewStore(dir, "detectors", "https://staging.matroid.com/api/v1")

	s1.Put([]string{"prod"})
	s2.Put([]string{"staging"})

	var got1, got2 []string
	s1.Get(&got1)
	s2.Get(&got2)

	if got1[0] != "prod" || got2[0] != "staging" {
		t.Fatal("servers should have separate caches")
	}
}

func TestClearAll(t *testing.T) {
	dir := t.TempDir()
	s1 := cache.NewStore(dir, "detectors", "https://app.matroid.com/api/v1")
	s2 := cache.NewStore(dir, "streams", "https://app.matroid.com/api/v1")

	s1.Put([]string{"a"})
	s2.Put([]string{"b"})

	cache.ClearAll(dir)

	files, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(files) != 0 {
		t.Fatalf("expected no cache files after ClearAll, got %d", len(files))
	}
}

func TestStore_DisabledByEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MATROID_NO_CACHE", "1")

	s := cache.NewStore(dir, "detectors", "https://app.matroid.com/api/v1")
	s.Put([]string{"a"})

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss when disabled via env")
	}

	// Verify no file was written
	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Fatal("expected no files written when cache disabled")
	}
}
