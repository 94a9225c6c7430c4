package convert

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/comictools/c2e/internal/assemble"
	"github.com/comictools/c2e/internal/clog"
	"github.com/comictools/c2e/internal/config"
	"github.com/comictools/c2e/internal/ingest"
	"github.com/comictools/c2e/internal/mobi"
	"github.com/comictools/c2e/internal/pageparser"
	"github.com/comictools/c2e/internal/profile"
	"github.com/comictools/c2e/internal/progressbar"
	"github.com/comictools/c2e/internal/sanitize"
	"github.com/comictools/c2e/internal/sidecar"
	"github.com/comictools/c2e/internal/transform"
	"github.com/comictools/c2e/internal/volume"
)

const stageIngest = "ingest"
const stageSanitize = "sanitize"
const stageTransform = "transform"
const stageSplit = "split"
const stagePackage = "package"

// Run converts every input path, accumulating a RunResult instead of
// exiting on the first failure: a fatal error for one input does not
// stop the others (§7 "Input error ... processing continues with
// remaining inputs"). It returns a non-nil error only for a
// configuration error, which is fatal before any input is touched.
func Run(ctx context.Context, inputs []string, cfg config.Config) (RunResult, error) {
	p, err := ensureConfig(cfg)
	if err != nil {
		return RunResult{}, err
	}

	var result RunResult
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			result.record(InputResult{Source: in, Outcome: OutcomeFailed, Err: ctx.Err()})
			continue
		default:
		}

		res := convertOne(ctx, in, cfg, p)
		if res.Err != nil {
			clog.Error(stagePackage, res.Err)
		} else {
			clog.Success(stagePackage, progressbar.Summary(filepath.Base(in), res.Outcome.String()))
		}
		result.record(res)
	}
	return result, nil
}

func convertOne(ctx context.Context, source string, cfg config.Config, p profile.Profile) InputResult {
	res := InputResult{Source: source}

	src, err := ingest.Recognize(source)
	if err != nil {
		return fail(res, err)
	}

	ext := extensionFor(cfg.OutputFormat, p)
	target := outputPath(cfg, source, ext)

	size, err := ingest.SourceSize(src)
	if err != nil {
		return fail(res, err)
	}
	if err := ingest.CheckDiskSpace(os.TempDir(), size); err != nil {
		return fail(res, err)
	}

	bar := progressbar.New(filepath.Base(source), 0)
	defer bar.Done()

	bar.SetStage(stageIngest)
	workDir, err := ingest.Stage(src, os.TempDir())
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}
	defer forceRemoveAll(workDir)

	outcome, ok, err := resolveSkip(cfg.SkipExisting, workDir, target)
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}
	if !ok {
		res.Outcome = outcome
		res.OutputPath = target
		if outcome == OutcomeAlreadyProcessedCopied {
			copied, err := copyVerbatim(source, filepath.Dir(target))
			if err != nil {
				bar.Cancel("failed")
				return fail(res, err)
			}
			res.OutputPath = copied
		}
		bar.Cancel(outcome.String())
		return res
	}

	if cfg.CopySourceTree != "" {
		if err := copySourceTree(source, filepath.Dir(target), cfg.CopySourceTree); err != nil {
			bar.Cancel("failed")
			return fail(res, err)
		}
	}

	comicInfo, err := sidecar.ReadComicInfo(workDir)
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}
	var comicInfoRaw []byte
	if cfg.CopyComicInfo {
		comicInfoRaw, _ = os.ReadFile(filepath.Join(workDir, sidecar.ComicInfoFileName))
	}

	processedAgain, err := looksAlreadyProcessed(workDir)
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}
	if processedAgain {
		res.MultiProcessed = true
		res.Warning = appendWarning(res.Warning, "input was already processed once; converting it again loses quality")
	}

	bar.SetStage(stageSanitize)
	chapterNames, err := sanitize.TreePadded(workDir, cfg.PadZeros)
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}
	if p.Features.KoboFamily {
		if err := sanitize.TreeKobo(workDir); err != nil {
			bar.Cancel("failed")
			return fail(res, err)
		}
	}

	images, err := collectImages(workDir)
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}
	if len(images) == 0 {
		bar.Cancel("failed")
		return fail(res, errors.New("convert: no images found in source"))
	}

	bar.SetStage(stageTransform)
	sc := sidecar.New()

	var jobs []transform.Job
	var pageCounts []int
	pipelineImages := images
	webtoonMode := cfg.Webtoon

	if webtoonMode {
		synthImages, wJobs, err := buildWebtoonJobs(images, cfg, p)
		if err != nil {
			bar.Cancel("failed")
			return fail(res, err)
		}
		if len(synthImages) == 0 {
			bar.Cancel("failed")
			return fail(res, errors.New("convert: webtoon merge produced no pages"))
		}
		pipelineImages = synthImages
		jobs = wJobs
		pageCounts = make([]int, len(jobs))
		for i := range pageCounts {
			pageCounts[i] = 1
		}
	} else {
		jobs = make([]transform.Job, len(images))
		pageCounts = make([]int, len(images))
		undersized := 0
		for i, img := range images {
			decoded, err := decodeFile(img.Path)
			if err != nil {
				bar.Cancel("failed")
				return fail(res, errors.Wrapf(err, "page %s", img.Path))
			}
			b := decoded.Bounds()
			if b.Dx() < p.Width && b.Dy() < p.Height {
				undersized++
			}
			pages := pageparser.Parse(img.Path, decoded.Bounds(), cfg)
			pageCounts[i] = len(pages)
			jobs[i] = transform.Job{Source: decoded, Pages: pages}
		}
		noScaleUp := cfg.Resize != config.ResizeUpscale && cfg.Resize != config.ResizeStretch
		if noScaleUp && undersized*4 > len(images) {
			res.Warning = appendWarning(res.Warning, "over 25% of pages are smaller than the device resolution; consider --upscale or --stretch")
		}
	}

	groupOf, volumeCount, err := planVolumes(cfg, workDir, pipelineImages)
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}

	bar.Increase(len(pipelineImages))
	jobResults, err := transform.RunPool(ctx, jobs, cfg, p, sc)
	if err != nil {
		bar.Cancel("failed")
		return fail(res, err)
	}
	bar.Add(len(pipelineImages))

	bar.SetStage(stageSplit)
	volumes := buildVolumes(pipelineImages, jobResults, groupOf, volumeCount, chapterNames, sc)

	var bookmarks []assemble.Chapter
	if comicInfo != nil && len(volumes) == 1 && !webtoonMode {
		bookmarks = reindexBookmarks(comicInfo.BookmarkList(), pageCounts, volumes[0].pages)
	}

	bar.SetStage(stagePackage)
	title := cfg.Title
	if title == "" && comicInfo != nil && comicInfo.Series != "" {
		title = comicInfo.Series
	}
	if title == "" {
		title = sanitize.POSIXName(baseStem(source))
	}

	var summary string
	if comicInfo != nil {
		summary = comicInfo.Summary
	}
	creators := buildCreators(comicInfo)

	stem := cfg.Title
	if stem == "" {
		stem = baseStem(source)
	}

	for vi, vol := range volumes {
		chapters := vol.chapters
		if vi == 0 && len(bookmarks) > 0 {
			chapters = bookmarks
		}

		book := assemble.Book{
			Title:        volumeTitle(title, vi, len(volumes)),
			UUID:         newVolumeUUID(),
			Contributor:  "c2e-1.0",
			Creators:     creators,
			Summary:      summary,
			MangaStyle:   cfg.MangaStyle,
			PanelView:    p.Features.PanelView,
			Autoscale:    cfg.Autoscale,
			HQ:           cfg.HQ,
			Profile:      p,
			OutputFormat: cfg.OutputFormat,
			Pages:        vol.pages,
			Chapters:     chapters,
		}

		data, _, err := packageVolume(book, cfg, comicInfoRaw)
		if err != nil {
			bar.Cancel("failed")
			return fail(res, err)
		}

		volName := volumeFilename(stem, vi, len(volumes), ext)
		outPath := filepath.Join(filepath.Dir(target), volName)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			bar.Cancel("failed")
			return fail(res, err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			bar.Cancel("failed")
			return fail(res, err)
		}
		res.OutputPath = outPath
	}

	res.Volumes = len(volumes)
	res.Outcome = OutcomeCompleted
	return res
}

func packageVolume(book assemble.Book, cfg config.Config, comicInfoRaw []byte) (data []byte, filename string, err error) {
	switch cfg.OutputFormat {
	case profile.FormatCBZ:
		data, err = assemble.BuildCBZArchive(book, comicInfoRaw)
		if err != nil {
			return nil, "", errors.Wrap(err, "building cbz archive")
		}
		return data, book.Title + ".cbz", nil
	case profile.FormatMOBI:
		data, err = mobi.Run(book)
		if err != nil {
			return nil, "", errors.Wrap(err, "building mobi")
		}
		return data, book.Title + ".azw3", nil
	default:
		out, err := assemble.Run(book)
		if err != nil {
			return nil, "", err
		}
		return out.Data, out.Filename, nil
	}
}

func fail(res InputResult, err error) InputResult {
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}

func baseStem(p string) string {
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

// planVolumes decides, per §4.6, which volume index each source image
// belongs to, without touching the filesystem beyond the read-only
// probing internal/volume already does (DetectDepth/BuildEntries). The
// grouping decision is made over the staged source tree before
// transform runs; the in-memory transform results are partitioned
// against it afterward in buildVolumes.
func planVolumes(cfg config.Config, workDir string, images []imageRef) (groupOf []int, total int, err error) {
	groupOf = make([]int, len(images))
	if cfg.VolumeSplit == config.VolumeSplitNone {
		return groupOf, 1, nil
	}

	strategy, err := volume.DetectDepth(workDir)
	if err != nil {
		return nil, 0, err
	}

	entries, err := volume.BuildEntries(workDir, strategy)
	if err != nil {
		return nil, 0, err
	}

	var groups [][]volume.Entry
	switch cfg.VolumeSplit {
	case config.VolumeSplitPerSubdirectory:
		if strategy != volume.ByDirectory {
			return groupOf, 1, nil
		}
		groups = volume.PlanPerSubdirectory(entries)
	default:
		groups = volume.Plan(volume.ModeAuto, entries, cfg.TargetSize())
	}

	unitGroup := make(map[string]int, len(entries))
	for gi, g := range groups {
		for _, e := range g {
			unitGroup[e.Name] = gi
		}
	}

	for i, img := range images {
		unit := img.TopLevel
		if strategy == volume.ByFile {
			unit = filepath.Base(img.Path)
		}
		groupOf[i] = unitGroup[unit]
	}
	return groupOf, len(groups), nil
}

type plannedVolume struct {
	pages    []assemble.Page
	chapters []assemble.Chapter
}

// buildVolumes partitions the flattened, job-ordered transform results
// into one plannedVolume per group index, assigning sequential globally
// unique Page IDs and recording a chapter head for every new source
// directory (relative path, nested or not) encountered, and marking the very first page of the very
// first volume as the book's cover (§3: "cover image is ... the first
// page of volume 1").
func buildVolumes(images []imageRef, jobResults [][]transform.Result, groupOf []int, total int, chapterNames sidecar.ChapterNames, sc *sidecar.Sidecar) []plannedVolume {
	volumes := make([]plannedVolume, total)
	seenDir := make([]map[string]bool, total)
	for i := range seenDir {
		seenDir[i] = map[string]bool{}
	}

	globalIdx := 0
	coverAssigned := false

	for i, img := range images {
		gi := groupOf[i]
		for _, r := range jobResults[i] {
			id := pageID(globalIdx, img.Path, r.Page.Variant)
			globalIdx++

			tags := sc.Get(r.Fingerprint)
			page := assemble.Page{
				ID:              id,
				Folder:          img.RelDir,
				Ext:             r.Ext,
				Data:            r.Encoded,
				Width:           r.Width,
				Height:          r.Height,
				Suffix:          r.Page.Variant.Suffix(),
				Rotated:         tags.Rotated,
				BlackBackground: tags.BlackBackground,
			}
			if !coverAssigned {
				page.IsCover = true
				coverAssigned = true
			}

			volumes[gi].pages = append(volumes[gi].pages, page)

			if img.RelDir != "" && !seenDir[gi][img.RelDir] {
				seenDir[gi][img.RelDir] = true
				volumes[gi].chapters = append(volumes[gi].chapters, assemble.Chapter{
					Title:     chapterTitle(chapterNames, img.RelDir),
					FirstPage: id,
				})
			}
		}
	}
	return volumes
}

func pageID(globalIdx int, sourcePath string, variant pageparser.Variant) string {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	return "p" + itoa(globalIdx) + "_" + stem + variant.Suffix()
}
