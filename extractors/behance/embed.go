package behance

import (
	"regexp"
	"strings"

	"github.com/krau/SaveFolio/pkg/extractor"
)

var (
	srcRe     = regexp.MustCompile(`(?i)src="([^"]+)"`)
	vimeoRe   = regexp.MustCompile(`(?i)vimeo\.com/video/(\d+)`)
	youtubeRe = regexp.MustCompile(`(?i)(?:youtube\.com/embed/|youtu\.be/|youtube\.com/watch\?v=)([^"?&]+)`)
)

// embedSrc returns the first src attribute of an embed snippet.
func embedSrc(html string) string {
	html = strings.ReplaceAll(html, "&amp;", "&")
	m := srcRe.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}

func classifyEmbed(html, modID string, index int) (extractor.MediaItem, bool) {
	src := embedSrc(html)
	if src == "" {
		return extractor.MediaItem{}, false
	}
	if strings.Contains(strings.ToLower(src), ".gif") {
		return extractor.MediaItem{
			ID:          "be-gif-" + modID,
			Type:        extractor.TypeAnimation,
			Title:       extractor.Placeholder(extractor.TypeAnimation, index+1),
			Ext:         "gif",
			ThumbURL:    src,
			DownloadURL: src,
		}, true
	}
	if m := vimeoRe.FindStringSubmatch(src); m != nil {
		return extractor.MediaItem{
			ID:          "be-v-" + modID,
			Type:        extractor.TypeVideo,
			Title:       "Vimeo Video",
			Ext:         "mp4",
			ThumbURL:    "https://vumbnail.com/" + m[1] + ".jpg",
			DownloadURL: "https://vimeo.com/video/" + m[1],
		}, true
	}
	if m := youtubeRe.FindStringSubmatch(src); m != nil {
		return extractor.MediaItem{
			ID:          "be-y-" + modID,
			Type:        extractor.TypeVideo,
			Title:       "YouTube Video",
			Ext:         "mp4",
			ThumbURL:    "https://img.youtube.com/vi/" + m[1] + "/maxresdefault.jpg",
			DownloadURL: "https://youtube.com/watch?v=" + m[1],
		}, true
	}
	return extractor.MediaItem{
		ID:          "be-emb-" + modID,
		Type:        extractor.TypeVideo,
		Title:       "Embedded Media",
		Ext:         "mp4",
		DownloadURL: src,
	}, true
}
