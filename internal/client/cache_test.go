package client

import (
	"path/filepath"
	"testing"

	"github.com/studenthub/studenthub/internal/models"
)

func tempCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return c
}

func TestCachePutAndGet(t *testing.T) {
	c := tempCache(t)

	posts := []models.Post{{ID: 1, Title: "a", Comments: []models.Comment{}}}
	if err := c.Put(CacheKeyIdeas, posts); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got []models.Post
	hit, err := c.Get(CacheKeyIdeas, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("got = %+v", got)
	}
}

func TestCacheGet_MissingKey(t *testing.T) {
	c := tempCache(t)

	var got []models.Post
	hit, err := c.Get(CacheKeyIdeas, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("missing key should not hit")
	}
}

func TestCacheDelete(t *testing.T) {
	c := tempCache(t)

	if err := c.Put(CacheKeyUser, models.Profile{ID: 1, Name: "sam"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Delete(CacheKeyUser); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var got models.Profile
	hit, _ := c.Get(CacheKeyUser, &got)
	if hit {
		t.Error("deleted key should not hit")
	}

	// Deleting again is not an error.
	if err := c.Delete(CacheKeyUser); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestCacheBytes_StableAcrossIdenticalPuts(t *testing.T) {
	c := tempCache(t)

	posts := []models.Post{{ID: 1, Title: "a", Comments: []models.Comment{}}}
	if err := c.Put(CacheKeyIdeas, posts); err != nil {
		t.Fatalf("Put: %v", err)
	}
	before, err := c.Bytes(CacheKeyIdeas)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := c.Put(CacheKeyIdeas, posts); err != nil {
		t.Fatalf("Put: %v", err)
	}
	after, _ := c.Bytes(CacheKeyIdeas)
	if string(before) != string(after) {
		t.Error("identical puts should produce identical bytes")
	}
}

func TestCacheWrite_NoLeftoverTempFiles(t *testing.T) {
	c := tempCache(t)

	for i := 0; i < 5; i++ {
		if err := c.Put(CacheKeyIdeas, []models.Post{}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	matches, _ := filepath.Glob(filepath.Join(c.dir, ".cache-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}
