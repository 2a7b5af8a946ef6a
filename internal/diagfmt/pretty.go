package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"supra/internal/diag"
	"supra/internal/source"
)

const tabWidth = 4

type palette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	note   *color.Color
	code   *color.Color
	gutter *color.Color
	caret  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgCyan),
		code:   mk(color.Faint),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.err.Sprint(sev.Label())
	case diag.SevWarning:
		return p.warn.Sprint(sev.Label())
	}
	return p.info.Sprint(diag.SevInfo.Label())
}

// Pretty renders every diagnostic of bag with a source excerpt and a caret
// line under the primary span.
//
//	units/greeter.ovr:3:12: error DEF3005: no super defined for `hello/1` ...
//	   3 | def hello(x) = super(x)
//	     |                ^~~~~~~~
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	base := fs.BaseDir()
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, base, pal, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, base string, pal palette, opts PrettyOpts) {
	if int(d.Primary.File) >= fs.Len() {
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, opts.PathMode, base), start.Line, start.Col,
		pal.severity(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)

	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	first := start.Line
	if uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else {
		first = 1
	}
	for n := first; n <= start.Line; n++ {
		line := expandTabs(f.GetLine(n))
		if opts.Width > 0 {
			line = runewidth.Truncate(line, opts.Width, "…")
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), line)
	}

	raw := f.GetLine(start.Line)
	fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), caretLine(raw, start, end, pal))

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		if int(note.Span.File) >= fs.Len() {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("= note:"), note.Msg)
			continue
		}
		nf := fs.Get(note.Span.File)
		ns, _ := fs.Resolve(note.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("= note:"),
			formatPath(nf, opts.PathMode, base), ns.Line, ns.Col, note.Msg)
	}
}

// caretLine pads to the display column of start and underlines up to end,
// or to the end of the line for multi-line spans.
func caretLine(line string, start, end source.LineCol, pal palette) string {
	col := clampCol(line, start.Col)
	stop := len(line)
	if end.Line == start.Line {
		stop = clampCol(line, end.Col)
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := runewidth.StringWidth(expandTabs(line[col:max(stop, col)]))
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", pad) + pal.caret.Sprint("^"+strings.Repeat("~", width-1))
}

func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	return min(int(col-1), len(line))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
