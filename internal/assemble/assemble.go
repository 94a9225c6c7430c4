package assemble

import (
	"github.com/pkg/errors"
)

// Result is the realized output of Run: a filename and its bytes,
// ready to be written to the working directory by the caller.
type Result struct {
	Filename string
	Data     []byte
}

// Run assembles b into its final EPUB-family archive, choosing KEPUB
// post-processing for Kobo targets and the plain fixed-layout EPUB
// otherwise (this covers both the EPUB and KFX output formats: KFX is
// the same container with a distinct OPF metadata block, which BuildOPF
// emits from b.OutputFormat; profile.ApplyManufacturerRules only turns
// panel view off for KFX before b reaches here). MOBI targets
// bypass this package entirely — internal/mobi.Run builds directly from
// the transformed page list, and internal/convert routes CBZ through
// BuildCBZArchive instead.
func Run(b Book) (Result, error) {
	if len(b.Pages) == 0 {
		return Result{}, errors.New("assemble: book has no pages")
	}

	if b.Profile.Features.KoboFamily {
		data, err := BuildKepubArchive(b)
		if err != nil {
			return Result{}, errors.Wrap(err, "building kepub archive")
		}
		return Result{Filename: b.Title + ".kepub.epub", Data: data}, nil
	}

	data, err := BuildArchive(b)
	if err != nil {
		return Result{}, errors.Wrap(err, "building epub archive")
	}
	return Result{Filename: b.Title + ".epub", Data: data}, nil
}
