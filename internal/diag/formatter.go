package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Formatter renders diagnostics in a Rust-style format with source snippets.
// Sources are registered by the caller; the formatter never touches the
// filesystem.
type Formatter struct {
	w       io.Writer
	color   bool
	sources map[string]string
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithColor toggles ANSI styling on rendered output.
func WithColor(on bool) FormatterOption {
	return func(f *Formatter) { f.color = on }
}

// NewFormatter creates a diagnostic formatter writing to w.
func NewFormatter(w io.Writer, opts ...FormatterOption) *Formatter {
	f := &Formatter{
		w:       w,
		sources: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddSource registers source text for a filename so spans from that file can
// be rendered with their snippet. The empty filename holds anonymous input.
func (f *Formatter) AddSource(filename, src string) {
	f.sources[filename] = src
}

var (
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleNote      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleGutter    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	styleSecondary = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleBold      = lipgloss.NewStyle().Bold(true)
)

func (f *Formatter) severityStyle(sev Severity) lipgloss.Style {
	switch sev {
	case SeverityWarning:
		return styleWarning
	case SeverityNote:
		return styleNote
	default:
		return styleError
	}
}

func (f *Formatter) paint(style lipgloss.Style, s string) string {
	if !f.color {
		return s
	}
	return style.Render(s)
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	f.printHeader(d)
	if len(spans) == 0 {
		if d.Span.IsValid() {
			fmt.Fprintf(f.w, "  %s %s\n", f.paint(styleGutter, "-->"), d.Span.String())
		}
		f.printFooter(d)
		return
	}

	byFile := make(map[string][]LabeledSpan)
	order := []string{}
	for _, span := range spans {
		name := span.Span.Filename
		if _, seen := byFile[name]; !seen {
			order = append(order, name)
		}
		byFile[name] = append(byFile[name], span)
	}
	for _, name := range order {
		src, ok := f.sources[name]
		if !ok {
			first := byFile[name][0].Span
			fmt.Fprintf(f.w, "  %s %s\n", f.paint(styleGutter, "-->"), first.String())
			continue
		}
		f.printFileSpans(name, src, byFile[name], d.Severity)
	}
	f.printFooter(d)
}

// FormatAll renders a batch of diagnostics separated by blank lines.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		f.Format(d)
	}
}

func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

func (f *Formatter) printHeader(d Diagnostic) {
	sev := string(d.Severity)
	if sev == "" {
		sev = string(SeverityError)
	}
	head := sev
	if d.Code != "" {
		head = fmt.Sprintf("%s[%s]", sev, d.Code)
	}
	fmt.Fprintf(f.w, "%s%s %s\n",
		f.paint(f.severityStyle(d.Severity), head),
		f.paint(styleBold, ":"),
		f.paint(styleBold, d.Message))
}

func (f *Formatter) printFileSpans(filename, src string, spans []LabeledSpan, sev Severity) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	byLine := make(map[int][]LabeledSpan)
	lineNums := []int{}
	for _, span := range spans {
		n := span.Span.Line
		if n < 1 || n > len(lines) {
			continue
		}
		if _, seen := byLine[n]; !seen {
			lineNums = append(lineNums, n)
		}
		byLine[n] = append(byLine[n], span)
	}
	if len(lineNums) == 0 {
		fmt.Fprintf(f.w, "  %s %s\n", f.paint(styleGutter, "-->"), spans[0].Span.String())
		return
	}

	width := len(fmt.Sprintf("%d", lineNums[len(lineNums)-1]))
	pad := strings.Repeat(" ", width)
	loc := spans[0].Span.String()
	if filename == "" {
		loc = fmt.Sprintf("<input>:%d:%d", spans[0].Span.Line, spans[0].Span.Column)
	}
	fmt.Fprintf(f.w, " %s%s %s\n", pad, f.paint(styleGutter, "-->"), loc)
	fmt.Fprintf(f.w, " %s %s\n", pad, f.paint(styleGutter, "|"))

	for i, n := range lineNums {
		if i > 0 && n > lineNums[i-1]+1 {
			fmt.Fprintf(f.w, "%s\n", f.paint(styleGutter, "..."))
		}
		content := lines[n-1]
		gutter := f.paint(styleGutter, fmt.Sprintf("%*d |", width, n))
		fmt.Fprintf(f.w, " %s %s\n", gutter, content)
		f.printUnderlines(width, content, byLine[n], sev)
	}
	fmt.Fprintf(f.w, " %s %s\n", pad, f.paint(styleGutter, "|"))
}

func (f *Formatter) printUnderlines(width int, content string, spans []LabeledSpan, sev Severity) {
	underline := make([]byte, len(content))
	for i := range underline {
		underline[i] = ' '
	}
	mark := func(span LabeledSpan, ch byte) {
		start := span.Span.Column - 1
		length := span.Span.End - span.Span.Start
		if length < 1 {
			length = 1
		}
		for i := start; i < start+length && i >= 0 && i < len(underline); i++ {
			if ch == '^' || underline[i] == ' ' {
				underline[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style != "secondary" {
			mark(span, '^')
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span, '~')
		}
	}

	text := strings.TrimRight(string(underline), " ")
	if text == "" {
		return
	}
	if f.color {
		var b strings.Builder
		for _, ch := range text {
			switch ch {
			case '^':
				b.WriteString(f.severityStyle(sev).Render("^"))
			case '~':
				b.WriteString(styleSecondary.Render("~"))
			default:
				b.WriteRune(ch)
			}
		}
		text = b.String()
	}

	label := ""
	for _, span := range spans {
		if span.Style != "secondary" && span.Label != "" {
			label = span.Label
			break
		}
	}
	if label == "" {
		for _, span := range spans {
			if span.Label != "" {
				label = span.Label
				break
			}
		}
	}
	pad := strings.Repeat(" ", width)
	if label != "" {
		fmt.Fprintf(f.w, " %s %s %s %s\n", pad, f.paint(styleGutter, "|"), text, f.paint(f.severityStyle(sev), label))
	} else {
		fmt.Fprintf(f.w, " %s %s %s\n", pad, f.paint(styleGutter, "|"), text)
	}
}

func (f *Formatter) printFooter(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  %s %s: %s\n", f.paint(styleGutter, "="), f.paint(styleBold, "note"), note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "%s: %s\n", f.paint(styleNote, "help"), d.Help)
	}
}
