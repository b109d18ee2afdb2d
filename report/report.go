// Package report renders simulation results for terminals.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Ashenafi-pixel/lootsim/simulate"
)

// MaxItemRows caps the item table; the rest is summarised in one line.
const MaxItemRows = 25

const noRequirements = "(none)"

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	dim    lipgloss.Style
	good   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true), // pink
		header: r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),  // teal
		dim:    r.NewStyle().Foreground(lipgloss.Color("240")),            // dark grey
		good:   r.NewStyle().Foreground(lipgloss.Color("86")),             // green
	}
}

// column is one table column; Right aligns numbers.
type column struct {
	title string
	width int
	right bool
}

func pad(s string, c column) string {
	s = runewidth.Truncate(s, c.width, "…")
	if c.right {
		return runewidth.FillLeft(s, c.width)
	}
	return runewidth.FillRight(s, c.width)
}

func row(cols []column, cells ...string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = pad(cells[i], c)
	}
	return strings.Join(parts, "  ")
}

func widest(title string, values []string, min int) int {
	w := runewidth.StringWidth(title)
	if w < min {
		w = min
	}
	for _, v := range values {
		if vw := runewidth.StringWidth(v); vw > w {
			w = vw
		}
	}
	return w
}

// Render writes res as a titled combination table followed by item totals.
func Render(w io.Writer, res *simulate.Result) error {
	st := newStyles(w)
	p := message.NewPrinter(language.English)
	var b strings.Builder

	title := "Loot simulation"
	if res.Table != "" {
		title += " · " + res.Table
	}
	b.WriteString(st.title.Render(title) + "\n")
	meta := p.Sprintf("%d trials · %d rolls · run %s", res.Trials, res.Rolls, res.RunID)
	if res.Seed != 0 {
		meta += p.Sprintf(" · seed %d", res.Seed)
	}
	if res.EvaluatedTrials > res.Trials {
		meta += p.Sprintf(" · tallies over %d trials", res.EvaluatedTrials)
	}
	b.WriteString(st.dim.Render(meta) + "\n\n")

	names := make([]string, len(res.Combinations))
	for i, c := range res.Combinations {
		names[i] = comboLabel(c.Name)
	}
	cols := []column{
		{title: "Requirements", width: widest("Requirements", names, 12)},
		{title: "Chests", width: 12, right: true},
		{title: "Probability", width: 11, right: true},
	}
	b.WriteString(st.header.Render(row(cols, cols[0].title, cols[1].title, cols[2].title)) + "\n")
	for i, c := range res.Combinations {
		line := row(cols, names[i], p.Sprintf("%d", c.Count), p.Sprintf("%.2f%%", c.Probability*100))
		if i == len(res.Combinations)-1 && len(res.Combinations) > 1 {
			line = st.good.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if len(res.Items) > 0 {
		b.WriteString("\n")
		shown := res.Items
		if len(shown) > MaxItemRows {
			shown = shown[:MaxItemRows]
		}
		itemNames := make([]string, len(shown))
		for i, it := range shown {
			itemNames[i] = it.Name
		}
		icols := []column{
			{title: "Item", width: widest("Item", itemNames, 12)},
			{title: "Total", width: 12, right: true},
			{title: "Per chest", width: 9, right: true},
			{title: "In chests", width: 9, right: true},
		}
		b.WriteString(st.header.Render(row(icols, icols[0].title, icols[1].title, icols[2].title, icols[3].title)) + "\n")
		for _, it := range shown {
			b.WriteString(row(icols,
				it.Name,
				p.Sprintf("%d", it.Total),
				p.Sprintf("%.2f", it.PerChest),
				p.Sprintf("%.1f%%", it.PresenceP*100),
			) + "\n")
		}
		if rest := len(res.Items) - len(shown); rest > 0 {
			b.WriteString(st.dim.Render(p.Sprintf("… and %d more items", rest)) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func comboLabel(name string) string {
	if name == "" {
		return noRequirements
	}
	return name
}

// Progress draws a single-line progress bar, redrawn in place.
type Progress struct {
	w   io.Writer
	bar progress.Model
	p   *message.Printer
}

// NewProgress returns a bar writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{
		w:   w,
		bar: progress.New(progress.WithWidth(40), progress.WithSolidFill("212")),
		p:   message.NewPrinter(language.English),
	}
}

// Update redraws the bar for done out of total.
func (pr *Progress) Update(done, total int) {
	if total <= 0 {
		return
	}
	pct := float64(done) / float64(total)
	fmt.Fprintf(pr.w, "\r%s %s", pr.bar.ViewAs(pct), pr.p.Sprintf("%d/%d", done, total))
}

// Done clears the bar line.
func (pr *Progress) Done() {
	fmt.Fprint(pr.w, "\r\033[K")
}
