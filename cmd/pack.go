package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/bootstrap"
	"github.com/krau/SaveFolio/cmd/packui"
	"github.com/krau/SaveFolio/common/utils/fsutil"
	"github.com/krau/SaveFolio/core/archive"
	"github.com/krau/SaveFolio/pkg/extractor"
	"github.com/krau/SaveFolio/storage"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack <url>",
	Short: "Extract a page and save its assets as a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringP("storage", "s", "", "storage name to save to, current directory when empty")
	packCmd.Flags().StringSlice("filter", nil, "only keep these media types (image, video, animation)")
	packCmd.Flags().StringP("out", "o", "", "archive name, defaults to <platform>-assets.zip")
	packCmd.Flags().Bool("no-progress", false, "disable progress bar")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	storname, _ := cmd.Flags().GetString("storage")
	types, _ := cmd.Flags().GetStringSlice("filter")
	out, _ := cmd.Flags().GetString("out")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	ctx := cmd.Context()
	logger := log.FromContext(ctx)
	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Extract.Extract(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s", extractor.UserMessage(err))
	}
	items := filterItems(res.Items, types)
	if len(items) == 0 {
		return fmt.Errorf("no assets found on %s", args[0])
	}
	if out == "" {
		out = strings.ToLower(res.Meta.Platform) + "-assets"
	}
	name := fsutil.SanitizeArchiveName(out)

	save, target, err := saver(ctx, storname, name)
	if err != nil {
		return err
	}

	job := archive.Job{OutputFilename: name, Assets: assetsFor(items)}
	var ui *packui.Progress
	if !noProgress {
		ui = packui.New(ctx, name, len(job.Assets))
		ui.Start()
		job.Progress = ui.Update
	}

	logger.Info("Packing assets", "count", len(job.Assets), "to", target)
	rc, err := app.Archive.Stream(ctx, job)
	if err == nil {
		err = save(rc)
		rc.Close()
	}
	if err != nil {
		if ui != nil {
			ui.SetError(err)
			ui.Wait()
		}
		return fmt.Errorf("failed to save archive: %w", err)
	}
	if ui != nil {
		ui.Done()
		ui.Wait()
	}
	logger.Info("Archive saved", "path", target)
	return nil
}

// saver returns a function writing the archive either to the named
// storage or to the current directory.
func saver(ctx context.Context, storname, name string) (func(io.Reader) error, string, error) {
	if storname == "" {
		return func(r io.Reader) error {
			f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, r); err != nil {
				f.Close()
				os.Remove(name)
				return err
			}
			return f.Close()
		}, name, nil
	}
	stor, err := storage.GetStorageByName(ctx, storname)
	if err != nil {
		return nil, "", err
	}
	p := stor.JoinStoragePath(name)
	return func(r io.Reader) error {
		return stor.Save(ctx, r, p)
	}, stor.Name() + ":" + p, nil
}

// assetsFor names every item after its position and title so archive
// entries sort in page order.
func assetsFor(items []extractor.MediaItem) []archive.Asset {
	assets := make([]archive.Asset, 0, len(items))
	for i, it := range items {
		name := fmt.Sprintf("%03d_%s", i+1, it.Title)
		if it.Ext != "" {
			name += "." + it.Ext
		}
		assets = append(assets, archive.Asset{
			URL:      it.DownloadURL,
			Filename: name,
		})
	}
	return assets
}
