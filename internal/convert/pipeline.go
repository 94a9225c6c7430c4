package convert

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/comictools/c2e/internal/assemble"
	"github.com/comictools/c2e/internal/config"
	"github.com/comictools/c2e/internal/ingest"
	"github.com/comictools/c2e/internal/natural"
	"github.com/comictools/c2e/internal/pageparser"
	"github.com/comictools/c2e/internal/profile"
	"github.com/comictools/c2e/internal/sidecar"
	"github.com/comictools/c2e/internal/transform"
	"github.com/comictools/c2e/internal/webtoon"
)

// imageRef is one source image discovered under a staged working
// directory, in final reading order.
type imageRef struct {
	Path     string
	RelDir   string
	TopLevel string
}

// collectImages walks root depth-first, files before subdirectories at
// each level (matching the chapter-per-directory convention the rest of
// the pipeline assumes), returning every recognized image in final
// reading order.
func collectImages(root string) ([]imageRef, error) {
	var out []imageRef

	var walk func(dir, relDir string) error
	walk = func(dir, relDir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, "reading %s", dir)
		}

		var files, dirs []os.DirEntry
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, e)
			} else if ingest.IsImage(e.Name()) {
				files = append(files, e)
			}
		}
		sort.Slice(files, func(i, j int) bool { return natural.Less(files[i].Name(), files[j].Name()) })
		sort.Slice(dirs, func(i, j int) bool { return natural.Less(dirs[i].Name(), dirs[j].Name()) })

		for _, f := range files {
			out = append(out, imageRef{
				Path:     filepath.Join(dir, f.Name()),
				RelDir:   relDir,
				TopLevel: topLevelOf(relDir),
			})
		}
		for _, d := range dirs {
			newRel := d.Name()
			if relDir != "" {
				newRel = relDir + "/" + d.Name()
			}
			if err := walk(filepath.Join(dir, d.Name()), newRel); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func topLevelOf(relDir string) string {
	if relDir == "" {
		return ""
	}
	if i := strings.Index(relDir, "/"); i >= 0 {
		return relDir[:i]
	}
	return relDir
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

// extensionFor returns the output file extension a format/profile
// combination produces. It is used to probe for an existing target
// before any work begins (§6 skip-existing policy) and to name every
// volume file convertOne writes; it applies the same KoboFamily/format
// rule as the filenames returned by packageVolume.
func extensionFor(format profile.Format, p profile.Profile) string {
	switch format {
	case profile.FormatCBZ:
		return ".cbz"
	case profile.FormatMOBI:
		return ".azw3"
	default:
		if p.Features.KoboFamily {
			return ".kepub.epub"
		}
		return ".epub"
	}
}

// volumeFilename applies the "-tome-N" suffix convention (shared with
// internal/volume's working-directory naming) to every volume after the
// first.
func volumeFilename(stem string, index, total int, ext string) string {
	if total <= 1 || index == 0 {
		return stem + ext
	}
	return stem + "-tome-" + itoa(index+1) + ext
}

// volumeTitle suffixes a multi-volume book's title with its position,
// e.g. "Series [2/3]", leaving single-volume titles untouched.
func volumeTitle(title string, index, total int) string {
	if total <= 1 {
		return title
	}
	return title + " [" + itoa(index+1) + "/" + itoa(total) + "]"
}

// appendWarning joins soft warnings (§7) for one input into a single
// summary line.
func appendWarning(existing, warning string) string {
	if existing == "" {
		return warning
	}
	return existing + "; " + warning
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// buildCreators merges the writer/penciller/inker/colorist credit lists
// from a ComicInfo sidecar into the single de-duplicated, sorted
// dc:creator list the assembler expects (§4.7).
func buildCreators(ci *sidecar.ComicInfo) []string {
	if ci == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, list := range [][]string{ci.Writers(), ci.Pencillers(), ci.Inkers(), ci.Colorists()} {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// chapterTitle looks up dir's display name: the original (pre-sanitize)
// name recorded by sanitize.Tree, falling back to the sanitized name
// itself if this directory wasn't renamed.
func chapterTitle(chapterNames map[string]string, dir string) string {
	if dir == "" {
		return ""
	}
	leaf := dir
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		leaf = dir[i+1:]
	}
	if original, ok := chapterNames[leaf]; ok {
		return original
	}
	return leaf
}

// reindexBookmarks maps each ComicInfo bookmark's pre-split page index to
// the ID of the first post-split Page it now corresponds to, using the
// per-source-image page counts produced by the page parser. This departs
// from original_source's buildNCX suffix-scanning heuristic (§9 design
// notes): since pageCounts is already known at assembly time, the
// post-split offset can be computed directly by cumulative sum instead
// of re-derived from "-kcc-b/-kcc-c" filename suffixes.
func reindexBookmarks(bookmarks []sidecar.Bookmark, pageCounts []int, pages []assemble.Page) []assemble.Chapter {
	if len(bookmarks) == 0 {
		return nil
	}
	starts := make([]int, len(pageCounts))
	running := 0
	for i, n := range pageCounts {
		starts[i] = running
		running += n
	}

	sorted := append([]sidecar.Bookmark(nil), bookmarks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PageIndex < sorted[j].PageIndex })

	var chapters []assemble.Chapter
	for _, bm := range sorted {
		if bm.PageIndex < 0 || bm.PageIndex >= len(starts) {
			continue
		}
		pageIdx := starts[bm.PageIndex]
		if pageIdx >= len(pages) {
			continue
		}
		chapters = append(chapters, assemble.Chapter{Title: bm.Name, FirstPage: pages[pageIdx].ID})
	}
	return chapters
}

// newVolumeUUID mints a fresh per-volume identifier for dc:identifier /
// dtb:uid (§3: "UUID per volume is fresh").
func newVolumeUUID() string {
	return uuid.NewString()
}

// buildWebtoonJobs implements §4.4's webtoon mode: every directory of
// source strips is merged into one tall image, scanned for panel
// boundaries, repacked into height-bounded pages, and rendered, yielding
// one synthetic imageRef/transform.Job pair per output page instead of
// per source file. Unlike the normal path, the source-to-page mapping is
// no longer 1:1, so bookmark reindexing (which assumes a per-source-image
// page count) is skipped for webtoon runs; chapter heads are still
// recorded from the directory boundary.
func buildWebtoonJobs(images []imageRef, cfg config.Config, p profile.Profile) ([]imageRef, []transform.Job, error) {
	targetHeight := cfg.WebtoonHeight
	if targetHeight <= 0 {
		targetHeight = p.Height
	}

	var outImages []imageRef
	var jobs []transform.Job
	n := 0

	for _, g := range groupByRelDir(images) {
		decoded := make([]image.Image, 0, len(g.images))
		for _, ref := range g.images {
			img, err := decodeFile(ref.Path)
			if err != nil {
				return nil, nil, err
			}
			decoded = append(decoded, img)
		}

		strip, err := webtoon.Merge(decoded)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "merging webtoon strip %s", g.relDir)
		}
		if strip == nil {
			continue
		}

		panels := webtoon.DetectPanels(strip)
		panels = webtoon.SplitOversizedPanels(panels, targetHeight)
		pages := webtoon.PackPages(panels, targetHeight)

		for _, pg := range pages {
			rendered := webtoon.Render(strip, pg)
			n++
			name := "strip-" + itoa(n) + ".png"
			path := name
			if g.relDir != "" {
				path = g.relDir + "/" + name
			}
			outImages = append(outImages, imageRef{Path: path, RelDir: g.relDir, TopLevel: g.topLevel})
			jobs = append(jobs, transform.Job{
				Source: rendered,
				Pages:  []pageparser.Page{{SourcePath: path, Variant: pageparser.VariantSingle, Role: pageparser.RoleNormal}},
			})
		}
	}
	return outImages, jobs, nil
}

type imageGroup struct {
	relDir   string
	topLevel string
	images   []imageRef
}

// groupByRelDir buckets images by their source directory, preserving
// first-seen order, one webtoon strip per chapter directory.
func groupByRelDir(images []imageRef) []imageGroup {
	var groups []imageGroup
	index := map[string]int{}
	for _, img := range images {
		gi, ok := index[img.RelDir]
		if !ok {
			gi = len(groups)
			index[img.RelDir] = gi
			groups = append(groups, imageGroup{relDir: img.RelDir, topLevel: img.TopLevel})
		}
		groups[gi].images = append(groups[gi].images, img)
	}
	return groups
}

// ensureConfig validates cfg and resolves its effective profile once per
// run, surfacing a configuration error before any input is touched
// (§7: "Surfaced before any work").
func ensureConfig(cfg config.Config) (profile.Profile, error) {
	if err := cfg.Validate(); err != nil {
		return profile.Profile{}, err
	}
	return cfg.EffectiveProfile()
}
