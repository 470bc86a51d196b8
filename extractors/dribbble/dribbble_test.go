package dribbble

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krau/SaveFolio/pkg/extractor"
)

const shotPage = `<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Neon Shot">
<meta property="og:image" content="https://cdn.dribbble.com/userupload/1/shot.png">
<meta property="og:video" content="https://cdn.dribbble.com/userupload/1/shot.mp4">
</head><body>
<img src="https://cdn.dribbble.com/userupload/1/shot.png">
<img data-src="https://cdn.dribbble.com/userupload/2/detail.jpg?resize=400x300" srcset="https://cdn.dribbble.com/userupload/2/detail.jpg?resize=400x300 1x, https://cdn.dribbble.com/userupload/2/detail@2x.jpg 2x">
<img src="https://cdn.dribbble.com/assets/logo-abc.png">
<img src="https://cdn.dribbble.com/users/9/avatars/normal/me.jpg">
<img src="https://cdn.dribbble.com/assets/sprite-nav.png">
<img src="https://elsewhere.example/random.jpg">
<img src="/relative.jpg">
<video><source src="/media/loop.mp4"></video>
</body></html>`

func TestExtractShot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(shotPage))
	}))
	defer srv.Close()

	items, err := New(nil).Extract(context.Background(), srv.URL+"/shots/1-neon")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		download string
		typ      extractor.MediaType
	}{
		{"https://cdn.dribbble.com/userupload/1/shot.png", extractor.TypeImage},
		{"https://cdn.dribbble.com/userupload/1/shot.mp4", extractor.TypeVideo},
		{"https://cdn.dribbble.com/userupload/2/detail.jpg?resize=400x300", extractor.TypeImage},
		{"https://cdn.dribbble.com/userupload/2/detail@2x.jpg", extractor.TypeImage},
		{srv.URL + "/media/loop.mp4", extractor.TypeVideo},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items: %+v", len(items), items)
	}
	for i, w := range want {
		if items[i].DownloadURL != w.download || items[i].Type != w.typ {
			t.Errorf("item %d = %+v, want %s (%s)", i, items[i], w.download, w.typ)
		}
		if items[i].Title != "Neon Shot" {
			t.Errorf("item %d title = %q", i, items[i].Title)
		}
	}
	if items[1].ThumbURL != "https://cdn.dribbble.com/userupload/1/shot.png" || items[1].Ext != "mp4" {
		t.Errorf("video item = %+v", items[1])
	}
}

func TestExtractWAFChallenge(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header string
	}{
		{"202", http.StatusAccepted, ""},
		{"header", http.StatusOK, "challenge"},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tt.header != "" {
				w.Header().Set("x-amzn-waf-action", tt.header)
			}
			w.WriteHeader(tt.status)
		}))
		_, err := New(nil).Extract(context.Background(), srv.URL)
		srv.Close()
		if !errors.Is(err, ErrWAFChallenge) {
			t.Errorf("%s: err = %v, want WAF challenge", tt.name, err)
		}
	}
}

func TestExtractHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	_, err := New(nil).Extract(context.Background(), srv.URL)
	var ee *extractor.Error
	if !errors.As(err, &ee) || errors.Is(err, ErrWAFChallenge) {
		t.Fatalf("err = %v", err)
	}
}
