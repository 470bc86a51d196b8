package plugin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/krau/SaveFolio/pkg/extractor"
)

const galleryPlugin = `
registerExtractor({
  metadata: { name: "Gallery", version: "1.0.0", description: "test", author: "me" },
  canHandle: function (url) { return url.indexOf("/gallery") >= 0; },
  extract: function (url) {
    var res = ghttp.getJSON(url + "/api");
    if (res.error) { throw new Error(res.error); }
    console.log("fetched", "count", res.data.images.length);
    return res.data.images.map(function (img) {
      return { downloadUrl: img.src, title: img.name };
    });
  }
});
`

func TestPluginExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gallery/api" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"images":[{"src":"https://cdn.example/a.png","name":"A"},{"src":"https://cdn.example/b.gif","name":""},{"src":"https://cdn.example/a.png","name":"dup"}]}`))
	}))
	defer srv.Close()

	exts, err := LoadScript(context.Background(), "gallery.js", galleryPlugin, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(exts) != 1 {
		t.Fatalf("registered %d extractors", len(exts))
	}
	e := exts[0]
	if e.Platform() != "Gallery" {
		t.Errorf("Platform = %q", e.Platform())
	}
	if !e.CanHandle(srv.URL+"/gallery") || e.CanHandle(srv.URL+"/other") {
		t.Error("CanHandle mismatch")
	}

	items, err := e.Extract(context.Background(), srv.URL+"/gallery")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Title != "A" || items[0].Type != extractor.TypeImage || items[0].Ext != "png" {
		t.Errorf("first = %+v", items[0])
	}
	if items[1].Type != extractor.TypeAnimation || items[1].Title != "Animation 2" {
		t.Errorf("second = %+v", items[1])
	}

	_, err = e.Extract(context.Background(), srv.URL+"/missing/gallery")
	var ee *extractor.Error
	if !errors.As(err, &ee) || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v", err)
	}
}

func TestPluginVersionCheck(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"1.0.0", false},
		{"1.4.2", false},
		{"0.9.0", true},
		{"2.0.0", true},
		{"latest", true},
	}
	for _, tt := range tests {
		code := `registerExtractor({metadata:{name:"v",version:"` + tt.version + `"}, extract:function(){return [];}});`
		_, err := LoadScript(context.Background(), "v.js", code, nil)
		if (err != nil) != tt.wantErr {
			t.Errorf("version %s: err = %v, wantErr %v", tt.version, err, tt.wantErr)
		}
	}
}

func TestPluginMissingExtract(t *testing.T) {
	_, err := LoadScript(context.Background(), "bad.js", `registerExtractor({metadata:{name:"bad",version:"1.0.0"}});`, nil)
	if err == nil {
		t.Fatal("expected error for plugin without extract")
	}
}

func TestPluginCancel(t *testing.T) {
	exts, err := LoadScript(context.Background(), "loop.js",
		`registerExtractor({metadata:{name:"loop",version:"1.0.0"}, extract:function(){ while(true){} }});`, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := exts[0].Extract(ctx, "https://x"); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.js"), []byte(`registerExtractor({metadata:{name:"a",version:"1.0.0"}, extract:function(){return {items:[{downloadUrl:"https://x/1.jpg"}]};}});`), 0o644)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o644)
	exts, err := Load(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(exts) != 1 {
		t.Fatalf("loaded %d", len(exts))
	}
	items, err := exts[0].Extract(context.Background(), "https://x")
	if err != nil || len(items) != 1 || items[0].ID != "item-1" {
		t.Fatalf("items = %+v err = %v", items, err)
	}
}

func TestPluginCanHandleTimeout(t *testing.T) {
	const spin = `
registerExtractor({
  metadata: { name: "Spin", version: "1.0.0" },
  canHandle: function (url) {
    if (url.indexOf("spin") >= 0) { for (;;) {} }
    return true;
  },
  extract: function (url) { return []; }
});
`
	exts, err := LoadScript(context.Background(), "spin.js", spin, nil)
	if err != nil {
		t.Fatal(err)
	}
	old := CanHandleTimeout
	CanHandleTimeout = 100 * time.Millisecond
	t.Cleanup(func() { CanHandleTimeout = old })

	start := time.Now()
	if exts[0].CanHandle("https://example.com/spin") {
		t.Error("looping canHandle reported true")
	}
	if d := time.Since(start); d > 2*time.Second {
		t.Errorf("CanHandle took %s", d)
	}
	// the runtime is usable again after the interrupt
	if !exts[0].CanHandle("https://example.com/ok") {
		t.Error("CanHandle after interrupt = false")
	}
}
