package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/krau/SaveFolio/pkg/extractor"
)

func sampleResult() *extractor.Result {
	return &extractor.Result{
		Items: []extractor.MediaItem{
			{ID: "be-1", Type: extractor.TypeImage, Title: "Cover Art", DownloadURL: "https://mir-s3-cdn-cf.behance.net/a.png", Ext: "png"},
			{ID: "be-v-2", Type: extractor.TypeVideo, Title: "Vimeo Video", DownloadURL: "https://vimeo.com/video/2", Ext: "mp4"},
			{ID: "be-gif-3", Type: extractor.TypeAnimation, Title: "Loop", DownloadURL: "https://mir-s3-cdn-cf.behance.net/c.gif", Ext: "gif"},
		},
		Meta: extractor.Meta{
			SourceURL:   "https://www.behance.net/gallery/1/x",
			AssetCount:  3,
			Platform:    "Behance",
			ExtractedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			ElapsedMs:   42,
		},
	}
}

func TestFilterItems(t *testing.T) {
	items := sampleResult().Items
	tests := []struct {
		types []string
		want  []string
	}{
		{nil, []string{"be-1", "be-v-2", "be-gif-3"}},
		{[]string{"image"}, []string{"be-1"}},
		{[]string{" VIDEO ", "animation"}, []string{"be-v-2", "be-gif-3"}},
		{[]string{"audio"}, nil},
	}
	for _, tt := range tests {
		got := filterItems(items, tt.types)
		var ids []string
		for _, it := range got {
			ids = append(ids, it.ID)
		}
		if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
			t.Errorf("filterItems(%v) = %v, want %v", tt.types, ids, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	res := sampleResult()

	var buf bytes.Buffer
	if err := render(&buf, res, "json"); err != nil {
		t.Fatal(err)
	}
	var back extractor.Result
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil || len(back.Items) != 3 {
		t.Fatalf("json output %q: %v", buf.String(), err)
	}

	buf.Reset()
	if err := render(&buf, res, "yaml"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"downloadUrl:", "vimeo.com/video/2", "platform: Behance"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("yaml output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := render(&buf, res, "table"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "be-v-2", "Cover Art", "Behance: 3 assets in 42ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestAssetsFor(t *testing.T) {
	assets := assetsFor(sampleResult().Items)
	want := []string{"001_Cover Art.png", "002_Vimeo Video.mp4", "003_Loop.gif"}
	for i, a := range assets {
		if a.Filename != want[i] {
			t.Errorf("asset %d filename = %q, want %q", i, a.Filename, want[i])
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("ünïcödé title", 6); got != "ünïcö…" {
		t.Errorf("got %q", got)
	}
}
