package tiktok

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krau/SaveFolio/pkg/extractor"
)

const rehydrationPage = `<html><body><script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">
{"__DEFAULT_SCOPE__":{"webapp.video-detail":{"itemInfo":{"itemStruct":{
  "id":"7300","desc":"making of","author":{"nickname":"studio"},
  "video":{"cover":"https://p16-sign.tiktokcdn.com/c.jpeg","playAddr":"https://v16-webapp.tiktok.com/play.mp4","definition":"720p"}
}}}}}
</script></body></html>`

func serve(t *testing.T, html string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestExtractRehydration(t *testing.T) {
	items, err := New(nil).Extract(context.Background(), serve(t, rehydrationPage))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}
	it := items[0]
	if it.ID != "tt-7300" || it.Title != "studio - making of" || it.DownloadURL != "https://v16-webapp.tiktok.com/play.mp4" ||
		it.ThumbURL != "https://p16-sign.tiktokcdn.com/c.jpeg" || it.Type != extractor.TypeVideo || it.Resolution != "720p" {
		t.Fatalf("item = %+v", it)
	}
}

func TestExtractOpenGraphFallback(t *testing.T) {
	html := `<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__">{broken</script>
<meta property="og:image" content="https://p16-sign.tiktokcdn.com/c.jpeg">`
	items, err := New(nil).Extract(context.Background(), serve(t, html))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "tt-meta" || items[0].Type != extractor.TypeImage || items[0].Title != "TikTok Video" {
		t.Fatalf("items = %+v", items)
	}
}

func TestExtractNothing(t *testing.T) {
	_, err := New(nil).Extract(context.Background(), serve(t, `<html></html>`))
	var ee *extractor.Error
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v", err)
	}
}
