package fsutil_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/krau/SaveFolio/common/utils/fsutil"
)

var safeName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func TestSanitizeArchiveName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "project.zip", expected: "project.zip"},
		{input: "Project.ZIP", expected: "Project.ZIP"},
		{input: "my project", expected: "my_project.zip"},
		{input: "../../etc/passwd", expected: ".._.._etc_passwd.zip"},
		{input: "作品集", expected: "___.zip"},
		{input: "", expected: "assets.zip"},
		{input: "   ", expected: "assets.zip"},
		{input: "..", expected: "assets.zip"},
		{input: "a\"b;c.zip", expected: "a_b_c.zip"},
	}
	for _, tc := range tests {
		got := fsutil.SanitizeArchiveName(tc.input)
		if got != tc.expected {
			t.Errorf("SanitizeArchiveName(%q) = %q; want %q", tc.input, got, tc.expected)
		}
		if again := fsutil.SanitizeArchiveName(got); again != got {
			t.Errorf("SanitizeArchiveName not idempotent: %q -> %q", got, again)
		}
		if !safeName.MatchString(got) || !strings.HasSuffix(strings.ToLower(got), ".zip") {
			t.Errorf("SanitizeArchiveName(%q) = %q is not a safe archive name", tc.input, got)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "a.jpg", expected: "a.jpg"},
		{input: "hello/world?.png", expected: "hello_world_.png"},
		{input: "with\ttab", expected: "with_tab"},
		{input: "  spaced name.gif ", expected: "spaced_name.gif"},
	}
	for _, tc := range tests {
		got := fsutil.SanitizeFilename(tc.input)
		if got != tc.expected {
			t.Errorf("SanitizeFilename(%q) = %q; want %q", tc.input, got, tc.expected)
		}
		if again := fsutil.SanitizeFilename(got); again != got {
			t.Errorf("SanitizeFilename not idempotent: %q -> %q", got, again)
		}
	}
}

func TestSanitizeFilenameFallback(t *testing.T) {
	for _, in := range []string{"", "   ", ".", "..."} {
		got := fsutil.SanitizeFilename(in)
		if !strings.HasPrefix(got, "asset-") || !safeName.MatchString(got) {
			t.Errorf("SanitizeFilename(%q) = %q; want asset-<id>", in, got)
		}
	}
	if fsutil.SanitizeFilename("") == fsutil.SanitizeFilename("") {
		t.Error("fallback names should be unique")
	}
}

func TestDetectExt(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if got := fsutil.DetectExt(png); got != ".png" {
		t.Errorf("DetectExt(png) = %q", got)
	}
	if got := fsutil.DetectExt([]byte{0x00, 0x01, 0x02, 0xff, 0xfe}); got != ".bin" {
		t.Errorf("DetectExt(binary) = %q", got)
	}
	if fsutil.HasExt("noext") || !fsutil.HasExt("a.jpg") || fsutil.HasExt("trailing.") {
		t.Error("HasExt mismatch")
	}
}
