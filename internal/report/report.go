// Package report turns battery results into text, Markdown and HTML
// summaries suitable for a terminal or a lesson page.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"statlab/domain/run"
	"statlab/domain/simulation"
	"statlab/internal/display"
	"statlab/ports"
)

// Format selects a renderer
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts text, markdown (md) or html
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, markdown or html)", s)
}

// Section is one titled block of a report
type Section struct {
	Title        string
	Rows         [][2]string
	SummaryTitle string
	Summary      *simulation.Summary
	Footer       string
}

// Builder renders results with one Formatter
type Builder struct {
	format *display.Formatter
}

// NewBuilder creates a builder; a nil formatter uses the default preferences.
func NewBuilder(format *display.Formatter) *Builder {
	if format == nil {
		format = display.NewFormatter(display.DefaultPreferences())
	}
	return &Builder{format: format}
}

// TestSection summarises a permutation test
func (b *Builder) TestSection(res *ports.TestResult) Section {
	f := b.format
	sim := res.Simulation
	rows := [][2]string{
		{"Observed " + sim.Kind, f.Number(sim.Observed)},
		{"Trials", fmt.Sprintf("%d (%s)", sim.Trials, sim.Strategy)},
		{"Tail", string(res.Tail)},
		{"Simulated p-value", f.PValue(res.PValue, sim.Trials)},
	}
	if ref := res.Reference; ref != nil {
		rows = append(rows, [2]string{ref.Method, fmt.Sprintf("statistic %s, two-sided p %s", f.Number(ref.Statistic), f.Number(ref.PValue))})
	}
	rows = append(rows, [2]string{"Verdict", fmt.Sprintf("%s (%s, alpha %s)", res.Verdict.Status, res.Verdict.Reason, f.Number(res.Verdict.Alpha))})

	summary := res.NullDistribution
	return Section{
		Title:        title(res.TestUsed),
		Rows:         rows,
		SummaryTitle: "Null distribution",
		Summary:      &summary,
		Footer:       manifestLine(res.Manifest),
	}
}

// IntervalSection summarises a bootstrap interval
func (b *Builder) IntervalSection(res *ports.IntervalResult) Section {
	f := b.format
	sim := res.Simulation
	summary := res.Distribution
	return Section{
		Title: title(res.TestUsed),
		Rows: [][2]string{
			{"Observed " + sim.Kind, f.Number(sim.Observed)},
			{"Resamples", fmt.Sprintf("%d (%s)", sim.Trials, sim.Strategy)},
			{f.Proportion(res.Level) + " confidence interval", f.Interval(res.Lower, res.Upper)},
		},
		SummaryTitle: "Bootstrap distribution",
		Summary:      &summary,
		Footer:       manifestLine(res.Manifest),
	}
}

// KeyValueSection is a titled two-column table, used for the closed-form
// calculators.
func KeyValueSection(heading string, rows [][2]string) Section {
	return Section{Title: heading, Rows: rows}
}

// Render writes s in the requested format
func (b *Builder) Render(s Section, format Format) (string, error) {
	switch format {
	case FormatText:
		return b.Text(s), nil
	case FormatMarkdown:
		return b.Markdown(s), nil
	case FormatHTML:
		return ToHTML(b.Markdown(s)), nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// Markdown renders s with GitHub-style tables
func (b *Builder) Markdown(s Section) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n| Quantity | Value |\n|---|---|\n", s.Title)
	for _, row := range s.Rows {
		fmt.Fprintf(&sb, "| %s | %s |\n", row[0], row[1])
	}
	if s.Summary != nil {
		headers, values := b.summaryCells(*s.Summary)
		fmt.Fprintf(&sb, "\n### %s\n\n", s.SummaryTitle)
		sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
		sb.WriteString(strings.Repeat("|---", len(headers)) + "|\n")
		sb.WriteString("| " + strings.Join(values, " | ") + " |\n")
	}
	if s.Footer != "" {
		fmt.Fprintf(&sb, "\n_%s_\n", s.Footer)
	}
	return sb.String()
}

// Text renders s as aligned plain text for a terminal
func (b *Builder) Text(s Section) string {
	var sb strings.Builder
	sb.WriteString(s.Title + "\n")
	sb.WriteString(strings.Repeat("=", len(s.Title)) + "\n")

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, row := range s.Rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	tw.Flush()

	if s.Summary != nil {
		headers, values := b.summaryCells(*s.Summary)
		fmt.Fprintf(&sb, "\n%s\n", s.SummaryTitle)
		tw = tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		fmt.Fprintln(tw, strings.Join(values, "\t"))
		tw.Flush()
	}
	if s.Footer != "" {
		fmt.Fprintf(&sb, "\n%s\n", s.Footer)
	}
	return sb.String()
}

func (b *Builder) summaryCells(s simulation.Summary) (headers, values []string) {
	f := b.format
	headers = []string{"count", "undefined", "mean", "sd", "min", "5%", "median", "95%", "99%", "max"}
	values = []string{
		fmt.Sprint(s.Count), fmt.Sprint(s.Undefined), f.Number(s.Mean), f.Number(s.StdDev), f.Number(s.Min),
		f.Number(s.Percentile5), f.Number(s.Median), f.Number(s.Percentile95), f.Number(s.Percentile99), f.Number(s.Max),
	}
	return headers, values
}

// ToHTML renders Markdown (tables included) to an HTML fragment
func ToHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

func manifestLine(m *run.Manifest) string {
	if m == nil {
		return ""
	}
	return m.Summary()
}

func title(testName string) string {
	words := strings.Split(testName, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Formatter returns the formatter sections are built with
func (b *Builder) Formatter() *display.Formatter {
	return b.format
}
