package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/comictools/c2e/internal/config"
	"github.com/comictools/c2e/internal/ingest"
)

// outputPath resolves the destination path for one input, per § EXTERNAL
// INTERFACES: an explicit --output directory joined with the source
// stem (or --title when given), plus the format's extension. The
// volume splitter appends its own "-tome-N" suffix to this stem before
// the extension when a conversion yields more than one volume.
func outputPath(cfg config.Config, source, ext string) string {
	stem := cfg.Title
	if stem == "" {
		stem = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	dir := cfg.Output
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, stem+ext)
}

// looksAlreadyProcessed reports whether any image directly under root
// (recursively) has a filename stem ending in one of the page-parser's
// double-page suffixes, per §6's skip/copy policy 2/3/4/5 definition:
// "input looks already-processed (any page stem ends with -kcc)".
func looksAlreadyProcessed(root string) (bool, error) {
	found := false
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if found || info.IsDir() || !ingest.IsImage(path) {
			return nil
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if strings.HasSuffix(stem, "-kcc-a") || strings.HasSuffix(stem, "-kcc-b") || strings.HasSuffix(stem, "-kcc-c") {
			found = true
		}
		return nil
	})
	return found, err
}

// resolveSkip applies the six skip/copy policy values from §6 against an
// already-staged source tree and the resolved output path, before any
// transform work begins. ok=false means the caller should stop and
// record the returned outcome; ok=true means conversion should proceed
// normally.
func resolveSkip(policy config.SkipPolicy, workDir, target string) (outcome Outcome, ok bool, err error) {
	targetExists := fileExists(target)
	checkExists := policy == config.SkipIfTargetExists || policy == config.SkipTargetAndProcessed || policy == config.SkipTargetCopyProcessed
	if checkExists && targetExists {
		return OutcomeTargetExists, false, nil
	}

	checkProcessed := policy == config.SkipIfAlreadyProcessed || policy == config.CopyIfAlreadyProcessed ||
		policy == config.SkipTargetAndProcessed || policy == config.SkipTargetCopyProcessed
	if !checkProcessed {
		return 0, true, nil
	}

	processed, err := looksAlreadyProcessed(workDir)
	if err != nil {
		return 0, false, err
	}
	if !processed {
		return 0, true, nil
	}

	switch policy {
	case config.SkipIfAlreadyProcessed, config.SkipTargetAndProcessed:
		return OutcomeAlreadyProcessedSkipped, false, nil
	case config.CopyIfAlreadyProcessed, config.SkipTargetCopyProcessed:
		return OutcomeAlreadyProcessedCopied, false, nil
	}
	return 0, true, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
