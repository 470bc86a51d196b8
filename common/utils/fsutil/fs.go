package fsutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/xid"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with an
// underscore. Empty names and names made only of dots get a generated
// asset-<id> name. The result is stable under a second pass.
func SanitizeFilename(name string) string {
	name = unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if strings.Trim(name, ".") == "" {
		return "asset-" + xid.New().String()
	}
	return name
}

// SanitizeArchiveName is SanitizeFilename for the archive itself, with a .zip
// suffix appended when missing. Empty input yields assets.zip.
func SanitizeArchiveName(name string) string {
	name = unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if strings.Trim(name, ".") == "" {
		name = "assets"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		name += ".zip"
	}
	return name
}

// HasExt reports whether name ends in a non-empty extension.
func HasExt(name string) bool {
	ext := filepath.Ext(name)
	return len(ext) > 1 && ext != name
}

// DetectExt sniffs head and returns an extension with its leading dot,
// .bin when the content is not recognised.
func DetectExt(head []byte) string {
	ext := mimetype.Detect(head).Extension()
	if ext == "" {
		return ".bin"
	}
	return ext
}

func DetectFileExt(fp string) string {
	mt, err := mimetype.DetectFile(fp)
	if err != nil {
		return ""
	}
	return mt.Extension()
}

type File struct {
	*os.File
}

func (f *File) Remove() error {
	return os.Remove(f.Name())
}

func (f *File) CloseAndRemove() error {
	if err := f.Close(); err != nil {
		return err
	}
	return f.Remove()
}

func CreateFile(fp string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(fp), os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.Create(fp)
	if err != nil {
		return nil, err
	}
	return &File{File: file}, nil
}
