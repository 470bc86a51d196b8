package guard

import "testing"

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.behance.net/gallery/123/project", true},
		{"https://mir-s3-cdn-cf.behance.net/project_modules/fs/a.png", true},
		{"http://behance.net/x", true},
		{"https://vimeo.com/video/12345", true},
		{"https://i.vimeocdn.com/video/1.jpg", true},
		{"https://img.youtube.com/vi/abc/maxresdefault.jpg", true},
		{"https://evilbehance.net/a.png", false},
		{"https://behance.net.evil.com/a.png", false},
		{"https://example.com/a.png", false},
		{"ftp://behance.net/a.png", false},
		{"file:///etc/passwd", false},
		{"not a url", false},
		{"::::", false},
		{"http://localhost/a", false},
		{"http://127.0.0.1/a", false},
		{"http://10.0.0.8/a", false},
		{"http://192.168.1.1/a", false},
		{"http://169.254.0.1/x", false},
		{"http://172.20.0.1/x", false},
		{"http://printer.local/x", false},
		{"http://[::1]/x", false},
	}
	for _, tt := range tests {
		if got := IsAllowed(tt.url); got != tt.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtraDomains(t *testing.T) {
	g := New(" Good.CDN. ", "")
	if !g.IsAllowed("https://good.cdn/a.jpg") {
		t.Fatal("extra domain should be allowed")
	}
	if !g.IsAllowed("https://img.good.cdn/a.jpg") {
		t.Fatal("subdomain of extra domain should be allowed")
	}
	if IsAllowed("https://good.cdn/a.jpg") {
		t.Fatal("default guard must not see extra domains")
	}
}

func TestIsPublicInput(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/page", true},
		{"https://www.behance.net/gallery/1/x", true},
		{"http://localhost:3000/", false},
		{"http://127.0.0.1/", false},
		{"http://172.15.0.1/", true},
		{"javascript:alert(1)", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPublicInput(tt.url); got != tt.want {
			t.Errorf("IsPublicInput(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
