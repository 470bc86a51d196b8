package netutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSetsUserAgent(t *testing.T) {
	uas := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uas <- r.UserAgent()
	}))
	defer srv.Close()

	c, err := NewClient(Options{UserAgent: "savefolio-test"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := Get(context.Background(), c, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	h := http.Header{}
	h.Set("User-Agent", "custom")
	resp, err = Get(context.Background(), c, srv.URL, h)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := <-uas; got != "savefolio-test" {
		t.Fatalf("default user agent = %q", got)
	}
	if got := <-uas; got != "custom" {
		t.Fatalf("explicit user agent = %q", got)
	}
}

func TestGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := GetPage(context.Background(), nil, srv.URL, BrowserHeader("https://www.behance.net/"))
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want StatusError 404", err)
	}
	if Retryable(err) {
		t.Fatal("404 must not be retryable")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&StatusError{StatusCode: 429}, true},
		{&StatusError{StatusCode: 500}, true},
		{&StatusError{StatusCode: 503}, true},
		{fmt.Errorf("wrapped: %w", &StatusError{StatusCode: 502}), true},
		{&StatusError{StatusCode: 403}, false},
		{errors.New("connection reset"), true},
		{context.Canceled, false},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewClientProxy(t *testing.T) {
	if _, err := NewClient(Options{Proxy: "socks5://127.0.0.1:1080"}); err != nil {
		t.Fatalf("socks5 proxy: %v", err)
	}
	if _, err := NewClient(Options{Proxy: "http://127.0.0.1:8080"}); err != nil {
		t.Fatalf("http proxy: %v", err)
	}
	if _, err := NewClient(Options{Proxy: "ftp://127.0.0.1"}); err == nil {
		t.Fatal("expected error for unsupported proxy scheme")
	}
}

func TestRedirectPolicy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/hop/{n}", func(w http.ResponseWriter, r *http.Request) {
		var n int
		fmt.Sscan(r.PathValue("n"), &n)
		if n == 0 {
			w.Write([]byte("done"))
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", n-1), http.StatusFound)
	})
	mux.HandleFunc("/blocked", func(w http.ResponseWriter, r *http.Request) {
		t.Error("blocked target was requested")
	})
	mux.HandleFunc("/to-blocked", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/blocked", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	resp, err := Get(ctx, c, srv.URL+fmt.Sprintf("/hop/%d", MaxRedirects), nil)
	if err != nil {
		t.Fatalf("%d redirects: %v", MaxRedirects, err)
	}
	resp.Body.Close()

	_, err = Get(ctx, c, srv.URL+fmt.Sprintf("/hop/%d", MaxRedirects+1), nil)
	if !errors.Is(err, ErrTooManyRedirects) || Retryable(err) {
		t.Fatalf("err = %v, want non-retryable ErrTooManyRedirects", err)
	}

	guarded := CheckRedirects(c, func(u string) bool { return !strings.HasSuffix(u, "/blocked") })
	_, err = Get(ctx, guarded, srv.URL+"/to-blocked", nil)
	if !errors.Is(err, ErrRedirectRejected) || Retryable(err) {
		t.Fatalf("err = %v, want non-retryable ErrRedirectRejected", err)
	}
	if c.CheckRedirect == nil || guarded.Transport != c.Transport {
		t.Error("CheckRedirects must keep the transport and leave the original policy")
	}
}
