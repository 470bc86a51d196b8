package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/extractors/page"
	"github.com/krau/SaveFolio/pkg/extractor"
	"github.com/lrstanley/go-ytdlp"
)

const Platform = "YouTube"

// dumpFunc returns the --dump-single-json output for url.
type dumpFunc func(ctx context.Context, url string) ([]byte, error)

type Extractor struct {
	proxy string
	dump  dumpFunc
}

func New(proxy string) *Extractor {
	e := &Extractor{proxy: proxy}
	e.dump = e.runYtdlp
	return e
}

func (e *Extractor) Platform() string { return Platform }

func (e *Extractor) Name() string { return "youtube" }

func (e *Extractor) Configure(cfg map[string]any) error {
	if p, ok := cfg["proxy"].(string); ok {
		e.proxy = p
	}
	return nil
}

func (e *Extractor) CanHandle(url string) bool {
	return page.HostMatches(url, "youtube.com", "youtu.be")
}

func (e *Extractor) runYtdlp(ctx context.Context, url string) ([]byte, error) {
	cmd := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		NoPlaylist().
		NoWarnings()
	if e.proxy != "" {
		cmd = cmd.Proxy(e.proxy)
	}
	result, err := cmd.Run(ctx, url)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("yt-dlp execution failed: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("yt-dlp exited with code %d: %s", result.ExitCode, result.Stderr)
	}
	return []byte(result.Stdout), nil
}

type videoInfo struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Formats   []format `json:"formats"`
}

type format struct {
	FormatID   string `json:"format_id"`
	URL        string `json:"url"`
	Ext        string `json:"ext"`
	VCodec     string `json:"vcodec"`
	ACodec     string `json:"acodec"`
	Height     int    `json:"height"`
	FormatNote string `json:"format_note"`
	Protocol   string `json:"protocol"`
}

func (f format) progressive() bool {
	return f.URL != "" &&
		f.VCodec != "" && f.VCodec != "none" &&
		f.ACodec != "" && f.ACodec != "none" &&
		strings.HasPrefix(f.Protocol, "http")
}

func (f format) label() string {
	if f.Height > 0 {
		return fmt.Sprintf("%dp", f.Height)
	}
	if f.FormatNote != "" {
		return f.FormatNote
	}
	return f.FormatID
}

func (e *Extractor) Extract(ctx context.Context, url string) ([]extractor.MediaItem, error) {
	logger := log.FromContext(ctx).WithPrefix("extractor/youtube")
	out, err := e.dump(ctx, url)
	if err != nil {
		return nil, extractor.NewError(Platform, "failed to read video info", err)
	}
	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, extractor.NewError(Platform, "failed to parse video info", err)
	}
	variants := progressiveVariants(info.Formats)
	if len(variants) == 0 {
		return nil, extractor.NewError(Platform, "no downloadable format found", nil)
	}
	logger.Debug("Resolved formats", "id", info.ID, "variants", len(variants))
	set := extractor.NewItemSet()
	set.Add(extractor.MediaItem{
		ID:          "yt-" + info.ID,
		Type:        extractor.TypeVideo,
		Title:       info.Title,
		Ext:         "mp4",
		ThumbURL:    info.Thumbnail,
		DownloadURL: variants[0].DownloadURL,
		Resolution:  variants[0].Resolution,
		Variants:    variants,
	})
	return set.Items(), nil
}

// progressiveVariants returns one variant per quality label, best first.
func progressiveVariants(formats []format) []extractor.Variant {
	var prog []format
	for _, f := range formats {
		if f.progressive() {
			prog = append(prog, f)
		}
	}
	sort.SliceStable(prog, func(i, j int) bool {
		if prog[i].Height != prog[j].Height {
			return prog[i].Height > prog[j].Height
		}
		return prog[i].Ext == "mp4" && prog[j].Ext != "mp4"
	})
	seen := make(map[string]bool)
	var out []extractor.Variant
	for _, f := range prog {
		l := f.label()
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, extractor.Variant{Resolution: l, DownloadURL: f.URL})
	}
	return out
}
