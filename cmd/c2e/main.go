// Command c2e converts a comic archive or directory tree into a
// fixed-layout EPUB, KEPUB, MOBI/AZW3, or CBZ, one reader-device profile
// at a time. Flag layout follows the teacher's grouped-flag CLI
// conventions, built on github.com/spf13/cobra.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/comictools/c2e/internal/clog"
	"github.com/comictools/c2e/internal/config"
	"github.com/comictools/c2e/internal/convert"
	"github.com/comictools/c2e/internal/profile"
)

var opts struct {
	profileID      string
	mangaStyle     bool
	hq             bool
	twoPanel       bool
	webtoon        bool
	webtoonHeight  int
	targetSizeMiB  int64
	output         string
	copySourceTree string
	title          string
	format         string
	batchSplit     int
	skipExisting   int
	padZeros       int
	copyComicInfo  bool
	noProcessing   bool
	upscale        bool
	stretch        bool
	noShrink       bool
	splitter       int
	gamma          float64
	cropping       int
	croppingPower  float64
	croppingMin    float64
	borderColor    string
	forceColor     bool
	forcePNG       bool
	mozJPEG        bool
	customWidth    int
	customHeight   int
	noColor        bool
	debug          bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "c2e [input]...",
		Short: "Convert comic archives into fixed-layout e-books",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runConvert,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.profileID, "profile", "KV", "target device profile id")
	flags.BoolVar(&opts.mangaStyle, "manga-style", false, "right-to-left reading direction")
	flags.BoolVar(&opts.hq, "hq", false, "high-quality upscaling target resolution")
	flags.BoolVar(&opts.twoPanel, "two-panel", false, "autoscale panel-view regions to fill the device width")
	flags.BoolVar(&opts.webtoon, "webtoon", false, "merge and re-split vertical-strip webtoon pages")
	flags.IntVar(&opts.webtoonHeight, "webtoon-height", 0, "target page height in pixels for --webtoon")
	flags.Int64Var(&opts.targetSizeMiB, "targetsize", 0, "volume split target size in MiB (0 = default: 400 MiB, or 100 MiB with --webtoon)")

	flags.StringVarP(&opts.output, "output", "o", "", "output directory (default: alongside each input)")
	flags.StringVar(&opts.copySourceTree, "copysourcetree", "", "copy the untouched source tree alongside the output, rooted at this path segment")
	flags.StringVar(&opts.title, "title", "", "override the book title (default: derived from the source name or ComicInfo.xml)")
	flags.StringVar(&opts.format, "format", "Auto", "output format: Auto, MOBI, EPUB, CBZ, KFX")
	flags.IntVar(&opts.batchSplit, "batchsplit", 0, "volume split mode: 0 none, 1 auto by size, 2 per subdirectory")
	flags.IntVar(&opts.skipExisting, "skipexisting", 0, "skip/copy policy for already-converted input, 0-5")
	flags.IntVar(&opts.padZeros, "padzeros", 0, "minimum digit width for zero-padded numeric filename runs")
	flags.BoolVar(&opts.copyComicInfo, "copycomicinfo", false, "copy ComicInfo.xml into the output (CBZ only)")

	flags.BoolVar(&opts.noProcessing, "noprocessing", false, "skip crop/contrast/resize/grayscale, keep pages as-is")
	flags.BoolVar(&opts.upscale, "upscale", false, "allow upscaling pages smaller than the device resolution")
	flags.BoolVar(&opts.stretch, "stretch", false, "stretch pages to fill the device resolution exactly")
	flags.BoolVar(&opts.noShrink, "noshrink", false, "never downscale pages below the device resolution")
	flags.IntVar(&opts.splitter, "splitter", 0, "double-page policy: 0 split, 1 rotate, 2 both")
	flags.Float64Var(&opts.gamma, "gamma", 0, "gamma correction factor (0 = auto)")
	flags.IntVar(&opts.cropping, "cropping", 1, "cropping mode: 0 off, 1 margins, 2 margins+page numbers")
	flags.Float64Var(&opts.croppingPower, "croppingpower", 1.0, "margin crop aggressiveness")
	flags.Float64Var(&opts.croppingMin, "croppingminimum", 0.25, "minimum ratio of page retained by margin cropping")
	flags.StringVar(&opts.borderColor, "bordercolor", "", "border fill color, name or #hex (default: auto-detect)")
	flags.BoolVar(&opts.forceColor, "forcecolor", false, "keep pages in color instead of the profile's grayscale palette")
	flags.BoolVar(&opts.forcePNG, "forcepng", false, "encode pages as PNG instead of JPEG")
	flags.BoolVar(&opts.mozJPEG, "mozjpeg", false, "prefer mozjpeg-compatible JPEG encoding parameters")

	flags.IntVar(&opts.customWidth, "customwidth", 0, "target width; with --customheight, overrides the selected profile's resolution (required with --profile Custom)")
	flags.IntVar(&opts.customHeight, "customheight", 0, "target height; with --customwidth, overrides the selected profile's resolution (required with --profile Custom)")

	flags.BoolVar(&opts.noColor, "no-color", false, "disable colorized log output")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	clog.EnableDebug(opts.debug)
	if opts.noColor {
		clog.EnableColor(false)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	result, err := convert.Run(context.Background(), args, cfg)
	if err != nil {
		return err
	}

	printSummary(result)
	if !result.OK() {
		return errors.Errorf("%d of %d input(s) failed", len(result.Failed()), len(result.Inputs))
	}
	return nil
}

func buildConfig() (config.Config, error) {
	cfg := config.Default()
	cfg.ProfileID = opts.profileID
	cfg.MangaStyle = opts.mangaStyle
	cfg.HQ = opts.hq
	cfg.Autoscale = opts.twoPanel
	cfg.Webtoon = opts.webtoon
	cfg.WebtoonHeight = opts.webtoonHeight
	cfg.TargetSizeMiB = opts.targetSizeMiB
	cfg.Output = opts.output
	cfg.CopySourceTree = opts.copySourceTree
	cfg.Title = opts.title
	cfg.VolumeSplit = config.VolumeSplitMode(opts.batchSplit)
	cfg.SkipExisting = config.SkipPolicy(opts.skipExisting)
	cfg.PadZeros = opts.padZeros
	cfg.CopyComicInfo = opts.copyComicInfo
	cfg.NoProcessing = opts.noProcessing
	cfg.DoublePage = config.DoublePagePolicy(opts.splitter)
	cfg.Gamma = opts.gamma
	cfg.Cropping = config.CroppingMode(opts.cropping)
	cfg.CropPower = opts.croppingPower
	cfg.CropMinRatio = opts.croppingMin
	cfg.BorderColor = opts.borderColor
	cfg.ForceColor = opts.forceColor
	cfg.ForcePNG = opts.forcePNG
	cfg.MozJPEG = opts.mozJPEG
	cfg.CustomWidth = opts.customWidth
	cfg.CustomHeight = opts.customHeight

	switch {
	case opts.upscale:
		cfg.Resize = config.ResizeUpscale
	case opts.stretch:
		cfg.Resize = config.ResizeStretch
	case opts.noShrink:
		cfg.Resize = config.ResizeNoShrink
	default:
		cfg.Resize = config.ResizeDefault
	}

	format, err := resolveFormat(opts.format, cfg.ProfileID)
	if err != nil {
		return config.Config{}, err
	}
	cfg.OutputFormat = format

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveFormat maps the --format string onto a profile.Format, resolving
// "Auto" per §4.1's manufacturer table before any work begins (§7:
// "Auto format for an unknown manufacturer" is a configuration error).
func resolveFormat(name, profileID string) (profile.Format, error) {
	switch strings.ToUpper(name) {
	case "MOBI":
		return profile.FormatMOBI, nil
	case "EPUB":
		return profile.FormatEPUB, nil
	case "CBZ":
		return profile.FormatCBZ, nil
	case "KFX":
		return profile.FormatKFX, nil
	case "AUTO", "":
		if profileID == profile.CustomProfileID {
			return 0, config.ErrConfiguration{Reason: "--format Auto requires an explicit format with a custom profile"}
		}
		p, err := profile.Lookup(profileID)
		if err != nil {
			return 0, errors.Wrap(config.ErrConfiguration{Reason: err.Error()}, "resolving --format Auto")
		}
		if p.Manufacturer == profile.ManufacturerOther {
			return 0, config.ErrConfiguration{Reason: "--format Auto is not valid for an unrecognized device manufacturer"}
		}
		return profile.DefaultFormat(p), nil
	default:
		return 0, config.ErrConfiguration{Reason: "unknown --format value " + name}
	}
}

func printSummary(r convert.RunResult) {
	for _, in := range r.Inputs {
		switch in.Outcome {
		case convert.OutcomeCompleted:
			clog.Success("summary", fmt.Sprintf("%s -> %s (%d volume(s))", in.Source, in.OutputPath, in.Volumes))
		case convert.OutcomeFailed:
			clog.Error("summary", errors.Wrapf(in.Err, "%s", in.Source))
		default:
			clog.Info("summary", fmt.Sprintf("%s: %s", in.Source, in.Outcome))
		}
		if in.Warning != "" {
			clog.Warn("summary", fmt.Sprintf("%s: %s", in.Source, in.Warning))
		}
	}
}
