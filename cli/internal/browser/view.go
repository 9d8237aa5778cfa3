package browser

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const sizeWidth = 10

func (m *Model) View() string {
	var b strings.Builder

	s := m.snap
	b.WriteString(titleStyle.Render("linkerland") + " " + fit(s.TargetPath, m.width-len("linkerland ")))
	b.WriteByte('\n')
	b.WriteString(headerStyle.Render(fit(fmt.Sprintf("arch %s · %s · text %s · data %s · bss %s · other %s · total %s",
		s.Arch, s.Format,
		m.units.Format(s.Totals.Text), m.units.Format(s.Totals.Data),
		m.units.Format(s.Totals.Bss), m.units.Format(s.Totals.Other),
		m.units.Format(s.Totals.Total)), m.width)))
	b.WriteByte('\n')

	m.viewObjects(&b)
	m.viewSymbols(&b)

	if m.filtering {
		b.WriteString(filterStyle.Render(m.input.View()))
	} else {
		b.WriteString(m.status())
	}
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) status() string {
	p := m.focused()
	if f := p.filterText(); f != "" {
		return filterStyle.Render(fit("filter: "+f, m.width))
	}
	return ""
}

func (m *Model) viewObjects(b *strings.Builder) {
	p := m.objects
	writePaneTitle(b, p.title, len(p.items), len(p.visible), p.sortName(), p.desc, p.filter, m.focus == focusObjects)

	nameWidth := max(m.width-6-4*(sizeWidth+1)-1, 8)
	cols := fmt.Sprintf("%5s %*s %*s %*s %*s  %s", "id",
		sizeWidth, "text", sizeWidth, "data", sizeWidth, "bss", sizeWidth, "total", "path")
	b.WriteString(columnStyle.Render(fit(cols, m.width)))
	b.WriteByte('\n')

	rows, cursor := p.window()
	for i, o := range rows {
		line := fmt.Sprintf("%5d %*s %*s %*s %*s  %s", o.ID,
			sizeWidth, m.units.Format(o.Text),
			sizeWidth, m.units.Format(o.Data),
			sizeWidth, m.units.Format(o.Bss),
			sizeWidth, m.units.Format(o.Total),
			runewidth.Truncate(o.Path, nameWidth, "…"))
		m.writeRow(b, line, i == cursor, m.focus == focusObjects)
	}
	padRows(b, p.height-len(rows))
}

func (m *Model) viewSymbols(b *strings.Builder) {
	p := m.symbols
	title := p.title
	if o, ok := m.objects.selected(); ok {
		title = fmt.Sprintf("Symbols of [%d] %s", o.ID, fit(o.Path, m.width/2))
	}
	writePaneTitle(b, title, len(p.items), len(p.visible), p.sortName(), p.desc, p.filter, m.focus == focusSymbols)

	nameWidth := max(m.width-18-(sizeWidth+1)-7-1, 8)
	cols := fmt.Sprintf("%18s %*s %-6s %s", "address", sizeWidth, "size", "bucket", "name")
	b.WriteString(columnStyle.Render(fit(cols, m.width)))
	b.WriteByte('\n')

	rows, cursor := p.window()
	for i, s := range rows {
		line := fmt.Sprintf("%18s %*s %-6s %s",
			fmt.Sprintf("0x%X", s.Address),
			sizeWidth, m.units.Format(s.Size),
			s.Bucket,
			runewidth.Truncate(s.Name, nameWidth, "…"))
		m.writeRow(b, line, i == cursor, m.focus == focusSymbols)
	}
	padRows(b, p.height-len(rows))
}

func writePaneTitle(b *strings.Builder, title string, total, shown int, sortBy string, desc bool, filter string, focused bool) {
	arrow := "↑"
	if desc {
		arrow = "↓"
	}
	marker := "  "
	if focused {
		marker = "▸ "
	}
	t := fmt.Sprintf("%s%s (%d/%d) sort: %s %s", marker, title, shown, total, sortBy, arrow)
	if filter != "" {
		t += fmt.Sprintf(" filter: %q", filter)
	}
	b.WriteString(paneTitle.Render(t))
	b.WriteByte('\n')
}

func (m *Model) writeRow(b *strings.Builder, line string, selected, focused bool) {
	line = fit(line, m.width)
	switch {
	case selected && focused:
		// Pad so the highlight spans the whole row.
		line += strings.Repeat(" ", max(m.width-runewidth.StringWidth(line), 0))
		b.WriteString(selectedStyle.Render(line))
	case selected:
		b.WriteString(inactiveStyle.Render(line))
	default:
		b.WriteString(line)
	}
	b.WriteByte('\n')
}

func padRows(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte('\n')
	}
}

// fit truncates s to the terminal width w, if it is known.
func fit(s string, w int) string {
	if w <= 0 {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}
