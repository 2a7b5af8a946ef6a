package diagfmt

import (
	"io"

	"supra/internal/diag"
	"supra/internal/source"
)

// Short writes one line per diagnostic, sorted by location.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
