package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
	"github.com/krau/SaveFolio/bootstrap"
	"github.com/krau/SaveFolio/pkg/extractor"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Print the media items found on a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		types, _ := cmd.Flags().GetStringSlice("filter")
		if !slices.Contains([]string{"json", "yaml", "table"}, format) {
			return fmt.Errorf("unknown format %q, want json, yaml or table", format)
		}

		ctx := cmd.Context()
		app, err := bootstrap.NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Extract.Extract(ctx, args[0])
		if err != nil {
			return fmt.Errorf("%s", extractor.UserMessage(err))
		}
		res.Items = filterItems(res.Items, types)
		res.Meta.AssetCount = len(res.Items)
		return render(cmd.OutOrStdout(), res, format)
	},
}

func init() {
	extractCmd.Flags().StringP("format", "f", "table", "output format: json, yaml or table")
	extractCmd.Flags().StringSlice("filter", nil, "only keep these media types (image, video, animation)")
	rootCmd.AddCommand(extractCmd)
}

// filterItems keeps items whose type is listed. An empty list keeps all.
func filterItems(items []extractor.MediaItem, types []string) []extractor.MediaItem {
	if len(types) == 0 {
		return items
	}
	out := make([]extractor.MediaItem, 0, len(items))
	for _, it := range items {
		if slices.ContainsFunc(types, func(t string) bool {
			return strings.EqualFold(strings.TrimSpace(t), string(it.Type))
		}) {
			out = append(out, it)
		}
	}
	return out
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func render(w io.Writer, res *extractor.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		out, err := yaml.Marshal(res)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "TYPE", "TITLE", "EXT", "URL")
	for _, it := range res.Items {
		t.Row(it.ID, string(it.Type), truncate(it.Title, 40), it.Ext, it.DownloadURL)
	}
	cached := ""
	if res.Meta.Cached {
		cached = ", cached"
	}
	_, err := fmt.Fprintf(w, "%s\n%s: %d assets in %dms%s\n", t.Render(), res.Meta.Platform, res.Meta.AssetCount, res.Meta.ElapsedMs, cached)
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
