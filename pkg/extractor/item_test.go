package extractor

import "testing"

func TestExtFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/a/b/photo.PNG", "png"},
		{"https://cdn.example.com/a/b/photo.webp?x=1&y=2", "webp"},
		{"https://cdn.example.com/a/b/", "jpg"},
		{"https://cdn.example.com/file", "jpg"},
		{"photo.jpeg?size=large", "jpeg"},
		{"", "jpg"},
	}
	for _, tt := range tests {
		if got := ExtFromURL(tt.url); got != tt.want {
			t.Errorf("ExtFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestItemSetDedup(t *testing.T) {
	set := NewItemSet()
	if !set.Add(MediaItem{ID: "a", DownloadURL: "https://x.behance.net/1.jpg"}) {
		t.Fatal("first add should succeed")
	}
	if set.Add(MediaItem{ID: "b", DownloadURL: "https://x.behance.net/1.jpg"}) {
		t.Fatal("duplicate download url should be dropped")
	}
	if set.Add(MediaItem{ID: "c"}) {
		t.Fatal("empty download url should be dropped")
	}
	items := set.Items()
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestItemSetGIFOverridesType(t *testing.T) {
	set := NewItemSet()
	set.Add(MediaItem{Type: TypeImage, Ext: "png", DownloadURL: "https://x.behance.net/anim.GIF?v=2"})
	set.Add(MediaItem{Type: TypeVideo, DownloadURL: "https://x.behance.net/clip.gif"})
	for _, it := range set.Items() {
		if it.Type != TypeAnimation || it.Ext != "gif" {
			t.Errorf("item %s: got type=%s ext=%s, want animation/gif", it.DownloadURL, it.Type, it.Ext)
		}
	}
}

func TestItemSetPlaceholders(t *testing.T) {
	set := NewItemSet()
	set.Add(MediaItem{Type: TypeImage, DownloadURL: "https://a/1.jpg"})
	set.Add(MediaItem{Type: TypeVideo, DownloadURL: "https://a/2.mp4"})
	set.Add(MediaItem{Title: "  ", DownloadURL: "https://a/3.gif"})
	got := set.Items()
	want := []string{"Image 1", "Video 2", "Animation 3"}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("item %d title = %q, want %q", i, got[i].Title, w)
		}
	}
	if got[1].Ext != "mp4" {
		t.Errorf("ext = %q, want mp4", got[1].Ext)
	}
}

func TestItemsNeverNil(t *testing.T) {
	if NewItemSet().Items() == nil {
		t.Fatal("Items() must not return nil")
	}
}

func TestUseVariant(t *testing.T) {
	item := MediaItem{
		ID:          "yt-1",
		Type:        TypeVideo,
		DownloadURL: "https://v/1080.mp4",
		Ext:         "mp4",
		Resolution:  "1080p",
		Variants: []Variant{
			{Resolution: "1080p", DownloadURL: "https://v/1080.mp4"},
			{Resolution: "720p", DownloadURL: "https://v/720.mp4"},
		},
	}
	if err := item.UseVariant(1); err != nil {
		t.Fatalf("UseVariant: %v", err)
	}
	if item.ID != "yt-1" || item.DownloadURL != "https://v/720.mp4" || item.Resolution != "720p" {
		t.Fatalf("unexpected item after swap: %+v", item)
	}
	if err := item.UseVariant(5); err == nil {
		t.Fatal("expected out of range error")
	}
	single := MediaItem{Variants: []Variant{{DownloadURL: "x"}}}
	if err := single.UseVariant(0); err == nil {
		t.Fatal("expected error for single variant")
	}
}

func TestUseVariantGIF(t *testing.T) {
	item := MediaItem{
		ID:          "be-7",
		Type:        TypeImage,
		DownloadURL: "https://cdn/still.png",
		Ext:         "png",
		Variants: []Variant{
			{Resolution: "still", DownloadURL: "https://cdn/still.png"},
			{Resolution: "motion", DownloadURL: "https://cdn/Motion.GIF?v=2"},
		},
	}
	if err := item.UseVariant(1); err != nil {
		t.Fatal(err)
	}
	if item.Type != TypeAnimation || item.Ext != "gif" {
		t.Fatalf("type = %s ext = %s, want animation gif", item.Type, item.Ext)
	}
}

func TestResultClone(t *testing.T) {
	r := &Result{Items: []MediaItem{{ID: "1", Variants: []Variant{{Resolution: "a"}}}}}
	c := r.Clone()
	c.Items[0].ID = "2"
	c.Items[0].Variants[0].Resolution = "b"
	c.Meta.Cached = true
	if r.Items[0].ID != "1" || r.Items[0].Variants[0].Resolution != "a" || r.Meta.Cached {
		t.Fatal("clone shares state with original")
	}
}
