// Command c2p exposes the webtoon merge/split pipeline standalone,
// for batching a vertical-strip source into bounded-height pages
// without running the full conversion pipeline.
package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/comictools/c2e/internal/clog"
	"github.com/comictools/c2e/internal/ingest"
	"github.com/comictools/c2e/internal/natural"
	"github.com/comictools/c2e/internal/webtoon"
)

var popts struct {
	height  int
	inPlace bool
	merge   bool
	output  string
	debug   bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "c2p [directory]...",
		Short: "Merge and re-split webtoon strips into bounded-height pages",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSplit,
	}

	flags := cmd.Flags()
	flags.IntVar(&popts.height, "height", 0, "target output page height in pixels (required)")
	flags.BoolVar(&popts.inPlace, "in-place", false, "overwrite each input directory's contents with the packed pages")
	flags.BoolVar(&popts.merge, "merge", false, "write only the merged strip, skipping the split phase")
	flags.StringVarP(&popts.output, "output", "o", "", "output directory (default: alongside each input)")
	flags.BoolVar(&popts.debug, "debug", false, "enable debug logging")
	cmd.MarkFlagRequired("height")

	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	clog.EnableDebug(popts.debug)
	if popts.height <= 0 {
		return errors.New("--height must be positive")
	}
	if popts.inPlace && popts.output != "" {
		return errors.New("--in-place and --output are mutually exclusive")
	}

	for _, dir := range args {
		if err := processDir(dir); err != nil {
			clog.Error("split", errors.Wrapf(err, "%s", dir))
			return err
		}
	}
	return nil
}

func processDir(dir string) error {
	images, err := collectStrip(dir)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return errors.Errorf("no images found in %s", dir)
	}

	decoded := make([]image.Image, 0, len(images))
	for _, path := range images {
		img, err := decodeFile(path)
		if err != nil {
			return err
		}
		decoded = append(decoded, img)
	}

	strip, err := webtoon.Merge(decoded)
	if err != nil {
		return errors.Wrap(err, "merging strip")
	}
	if strip == nil {
		return nil
	}

	destDir := destinationFor(dir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	if popts.merge {
		if err := writePNG(strip, filepath.Join(destDir, filepath.Base(dir)+".png")); err != nil {
			return err
		}
		clog.Success("split", fmt.Sprintf("%s -> %s (merged strip)", dir, destDir))
		return nil
	}

	panels := webtoon.DetectPanels(strip)
	panels = webtoon.SplitOversizedPanels(panels, popts.height)
	pages := webtoon.PackPages(panels, popts.height)

	if popts.inPlace {
		for _, path := range images {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	stem := filepath.Base(dir)
	for i, pg := range pages {
		rendered := webtoon.Render(strip, pg)
		name := fmt.Sprintf("%s-%04d.png", stem, i+1)
		if err := writePNG(rendered, filepath.Join(destDir, name)); err != nil {
			return err
		}
	}

	clog.Success("split", fmt.Sprintf("%s -> %s (%d page(s))", dir, destDir, len(pages)))
	return nil
}

func destinationFor(dir string) string {
	if popts.inPlace {
		return dir
	}
	if popts.output != "" {
		return filepath.Join(popts.output, filepath.Base(dir))
	}
	return dir + "-split"
}

func collectStrip(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && ingest.IsImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })

	out := make([]string, len(names))
	for i, name := range names {
		out[i] = filepath.Join(dir, name)
	}
	return out, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return img, nil
}

func writePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	return png.Encode(f, img)
}
