package cache

import (
	"testing"
	"time"

	"github.com/krau/SaveFolio/pkg/extractor"
)

func sampleResult() *extractor.Result {
	return &extractor.Result{
		Items: []extractor.MediaItem{
			{ID: "be-1", Type: extractor.TypeImage, Title: "Cover", DownloadURL: "https://mir-s3-cdn-cf.behance.net/a.png", ThumbURL: "https://mir-s3-cdn-cf.behance.net/a.png", Ext: "png"},
		},
		Meta: extractor.Meta{
			SourceURL:  "https://www.behance.net/gallery/1/x",
			AssetCount: 1,
			Platform:   "Behance",
		},
	}
}

func TestCacheGetMarksCached(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := "https://www.behance.net/gallery/1/x"
	if err := c.Set(key, sampleResult()); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !got.Meta.Cached {
		t.Error("cache hit should be marked cached")
	}
	if len(got.Items) != 1 || got.Items[0].ID != "be-1" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}

	// mutating the copy must not leak into the stored entry
	got.Items[0].Title = "changed"
	got.Meta.Cached = false
	again, _ := c.Get(key)
	if again.Items[0].Title != "Cover" {
		t.Error("stored entry was mutated through a returned copy")
	}
	if !again.Meta.Cached {
		t.Error("second hit should still be marked cached")
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, TTL: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok := c.Get("https://nope.example/"); ok {
		t.Fatal("unexpected hit")
	}
	if err := c.Set("k", nil); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestCacheTTL(t *testing.T) {
	c, err := New(Config{MaxEntries: 10, TTL: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.Set("k", sampleResult()); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}
	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
}
