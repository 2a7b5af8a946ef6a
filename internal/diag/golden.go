package diag

import (
	"cmp"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"supra/internal/source"
)

// shortLine is one rendered row of the short format.
type shortLine struct {
	label string
	code  string
	path  string
	pos   source.LineCol
	msg   string
}

func (l shortLine) String() string {
	var b strings.Builder
	b.WriteString(l.label)
	b.WriteByte(' ')
	b.WriteString(l.code)
	b.WriteByte(' ')
	b.WriteString(l.path)
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(l.pos.Line), 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(l.pos.Col), 10))
	b.WriteByte(' ')
	b.WriteString(l.msg)
	return b.String()
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), sorted by path, position, label and code:
//
//	error DEF3005 units/shapes.ovr:2:12 no super defined for `f/1` ...
//
// Spans outside fs are skipped. Used for `--format short` and golden tests.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	base := fs.BaseDir()
	lines := make([]shortLine, 0, len(diags))
	add := func(label, code string, span source.Span, msg string) {
		if int(span.File) >= fs.Len() {
			return
		}
		f := fs.Get(span.File)
		if int(span.Start) > len(f.Content) {
			return
		}
		start, _ := fs.Resolve(span)
		lines = append(lines, shortLine{
			label: label,
			code:  code,
			path:  strings.TrimPrefix(filepath.ToSlash(f.RelPath(base)), "./"),
			pos:   start,
			msg:   flattenMessage(msg),
		})
	}
	for _, d := range diags {
		code := d.Code.ID()
		add(d.Severity.Label(), code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.code, b.code),
		)
	})

	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.String()
	}
	return strings.Join(rendered, "\n")
}

// flattenMessage keeps a message on one line.
func flattenMessage(msg string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(strings.ReplaceAll(msg, "\r\n", "\n")), " "))
}
