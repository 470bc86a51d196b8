package instagram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krau/SaveFolio/pkg/extractor"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		wantID  string
		wantTyp extractor.MediaType
		wantErr bool
	}{
		{
			name:    "video",
			html:    `<meta property="og:title" content="Reel"><meta property="og:image" content="https://scontent.cdninstagram.com/v/t.jpg"><meta property="og:video" content="https://scontent.cdninstagram.com/v/r.mp4">`,
			wantID:  "ig-video",
			wantTyp: extractor.TypeVideo,
		},
		{
			name:    "image",
			html:    `<meta property="og:image" content="https://scontent.cdninstagram.com/v/p.jpg?stp=1">`,
			wantID:  "ig-image",
			wantTyp: extractor.TypeImage,
		},
		{
			name:    "login wall",
			html:    `<html><body>Log in</body></html>`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.html))
			}))
			defer srv.Close()

			items, err := New(nil).Extract(context.Background(), srv.URL)
			if tt.wantErr {
				var ee *extractor.Error
				if !errors.As(err, &ee) {
					t.Fatalf("err = %v, want *extractor.Error", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(items) != 1 || items[0].ID != tt.wantID || items[0].Type != tt.wantTyp {
				t.Fatalf("items = %+v", items)
			}
		})
	}
}
