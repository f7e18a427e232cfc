// Package report renders comparisons and advice as terminal or Markdown text.
package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/gap"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

func newWriter() table.Writer {
	style := table.StyleLight
	// Country names keep their own casing.
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	w := table.NewWriter()
	w.SetStyle(style)
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func scoreCell(d culture.Dimensions, dim culture.Dimension) any {
	if v, ok := d.Value(dim); ok {
		return v
	}
	return "-"
}

// Scores renders one row per dimension and one column per country.
func Scores(profiles []culture.CountryProfile, m Mode) string {
	w := newWriter()

	header := table.Row{"Dimension"}
	for _, p := range profiles {
		header = append(header, p.DisplayName())
	}
	w.AppendHeader(header)

	for _, dim := range culture.AllDimensions {
		row := table.Row{fmt.Sprintf("%s (%s)", dim.Name(), dim.Abbrev())}
		for _, p := range profiles {
			row = append(row, scoreCell(p.Dimensions, dim))
		}
		w.AppendRow(row)
	}

	footer := table.Row{"Culture type"}
	for _, p := range profiles {
		footer = append(footer, p.CultureType.Label())
	}
	w.AppendFooter(footer)

	cfgs := make([]table.ColumnConfig, 0, len(profiles))
	for i := range profiles {
		cfgs = append(cfgs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	w.SetColumnConfigs(cfgs)
	return render(w, m)
}

// Countries renders the catalog listing. Codes in custom are marked as user
// defined.
func Countries(profiles []culture.CountryProfile, custom map[string]bool, m Mode) string {
	w := newWriter()
	w.AppendHeader(table.Row{"Code", "Name", "PDI", "IDV", "UAI", "MAS", "Type", "Source"})
	for _, p := range profiles {
		source := "built-in"
		if custom[p.Code] {
			source = "custom"
		}
		d := p.Dimensions
		w.AppendRow(table.Row{
			p.Code, p.DisplayName(),
			scoreCell(d, culture.PowerDistance),
			scoreCell(d, culture.Individualism),
			scoreCell(d, culture.UncertaintyAvoidance),
			scoreCell(d, culture.Masculinity),
			p.CultureType.Label(),
			source,
		})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return render(w, m)
}

// Gaps renders the gap list of one pair.
func Gaps(nameA, nameB string, gaps []gap.Gap, m Mode) string {
	w := newWriter()
	w.AppendHeader(table.Row{"Dimension", nameA, nameB, "Gap", "Significance"})
	for _, g := range gaps {
		w.AppendRow(table.Row{g.Dimension.Name(), g.ValueA, g.ValueB, g.Magnitude, string(g.Significance)})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return render(w, m)
}

// Comparison renders the score table followed by the gap table of each pair.
func Comparison(c composer.Comparison, m Mode) string {
	names := make(map[string]string, len(c.Profiles))
	for _, p := range c.Profiles {
		names[p.Code] = p.DisplayName()
	}

	var sb strings.Builder
	sb.WriteString(Scores(c.Profiles, m))
	sb.WriteString("\n")
	for _, pair := range c.Pairs {
		sb.WriteString("\n")
		sb.WriteString(heading(fmt.Sprintf("%s vs %s", names[pair.CodeA], names[pair.CodeB]), m))
		sb.WriteString(Gaps(names[pair.CodeA], names[pair.CodeB], pair.Gaps, m))
		sb.WriteString("\n")
	}
	if c.Advice != nil {
		sb.WriteString("\n")
		sb.WriteString(Advice(*c.Advice, m))
	}
	return sb.String()
}

// Advice renders both direction blocks and the mutual-understanding block.
func Advice(res composer.Result, m Mode) string {
	var sb strings.Builder
	bullets := func(lines []string) {
		for _, l := range lines {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(heading(res.FromAtoB.Title, m))
	bullets(res.FromAtoB.Bullets)
	sb.WriteString(heading(res.FromBtoA.Title, m))
	bullets(res.FromBtoA.Bullets)

	sb.WriteString(heading(res.Mutual.Title, m))
	sb.WriteString(subheading("Key differences", m))
	bullets(res.Mutual.KeyDifferences)
	sb.WriteString(subheading("Common ground", m))
	bullets(res.Mutual.CommonGround)
	sb.WriteString(subheading("Bridging strategy", m))
	sb.WriteString(res.Mutual.BridgingStrategy)
	sb.WriteString("\n")
	return sb.String()
}

func heading(s string, m Mode) string {
	if m == Markdown {
		return "## " + s + "\n\n"
	}
	return s + "\n" + strings.Repeat("=", text.RuneWidthWithoutEscSequences(s)) + "\n"
}

func subheading(s string, m Mode) string {
	if m == Markdown {
		return "### " + s + "\n\n"
	}
	return s + ":\n"
}
