package browser

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"linkerland.dev/pkg/sizes"
)

// Options configures the initial state of the browser.
type Options struct {
	Units Units
	// ObjectSort is one of "total", "text", "data", "bss", "path" or "id".
	ObjectSort string
	// SymbolSort is one of "size", "address" or "name".
	SymbolSort string
	Ascending  bool
}

type focus int

const (
	focusObjects focus = iota
	focusSymbols
)

// Model is the bubbletea model of the browser.
type Model struct {
	snap     *Snapshot
	byObject map[int32][]sizes.SymbolMetrics

	objects *pane[sizes.ObjectMetrics]
	symbols *pane[sizes.SymbolMetrics]
	focus   focus
	units   Units

	// shown is the object whose symbols are in the symbols pane.
	shown    int32
	hasShown bool

	keys      keyMap
	help      help.Model
	input     textinput.Model
	filtering bool

	width, height int
}

var _ tea.Model = (*Model)(nil)

func objectSortKeys() []sortKey[sizes.ObjectMetrics] {
	bucket := func(name string, b sizes.Bucket) sortKey[sizes.ObjectMetrics] {
		return sortKey[sizes.ObjectMetrics]{name, func(x, y sizes.ObjectMetrics) int {
			return cmp.Compare(x.Get(b), y.Get(b))
		}}
	}
	return []sortKey[sizes.ObjectMetrics]{
		{"total", func(x, y sizes.ObjectMetrics) int { return cmp.Compare(x.Total, y.Total) }},
		bucket("text", sizes.Text),
		bucket("data", sizes.Data),
		bucket("bss", sizes.Bss),
		{"path", func(x, y sizes.ObjectMetrics) int { return cmp.Compare(x.Path, y.Path) }},
		{"id", func(x, y sizes.ObjectMetrics) int { return cmp.Compare(x.ID, y.ID) }},
	}
}

func symbolSortKeys() []sortKey[sizes.SymbolMetrics] {
	return []sortKey[sizes.SymbolMetrics]{
		{"size", func(x, y sizes.SymbolMetrics) int { return cmp.Compare(x.Size, y.Size) }},
		{"address", func(x, y sizes.SymbolMetrics) int { return cmp.Compare(x.Address, y.Address) }},
		{"name", func(x, y sizes.SymbolMetrics) int { return cmp.Compare(x.Name, y.Name) }},
	}
}

// New returns a browser over snap.
func New(snap *Snapshot, opts Options) *Model {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "substring"

	m := &Model{
		snap:     snap,
		byObject: snap.symbolsByObject(),
		objects: &pane[sizes.ObjectMetrics]{
			title: "Objects",
			keys:  objectSortKeys(),
			match: func(o sizes.ObjectMetrics, q string) bool {
				return strings.Contains(strings.ToLower(o.Path), q)
			},
			desc: true,
		},
		symbols: &pane[sizes.SymbolMetrics]{
			title: "Symbols",
			keys:  symbolSortKeys(),
			match: func(s sizes.SymbolMetrics, q string) bool {
				return strings.Contains(strings.ToLower(s.Name), q)
			},
			desc: true,
		},
		units: opts.Units,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: input,
	}
	m.objects.setSort(opts.ObjectSort, !opts.Ascending)
	m.symbols.setSort(opts.SymbolSort, !opts.Ascending)
	m.objects.setItems(snap.Objects)
	m.syncSymbols()
	m.resize(80, 24)
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.filtering {
			cmd = m.updateFilter(msg)
		} else {
			cmd = m.handleKey(msg)
		}
		m.syncSymbols()

	default:
		if m.filtering {
			m.input, cmd = m.input.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.stopFiltering()
		m.focused().setFilter("")
		return nil
	case key.Matches(msg, m.keys.Accept):
		m.stopFiltering()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.focused().setFilter(m.input.Value())
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusObjects {
			m.focus = focusSymbols
		} else {
			m.focus = focusObjects
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.input.SetValue(m.focused().filterText())
		m.input.CursorEnd()
		m.resize(m.width, m.height)
		return m.input.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.focused().setFilter("")
	case key.Matches(msg, m.keys.Units):
		m.units = m.units.toggle()
	case key.Matches(msg, m.keys.Sort):
		m.focused().cycleSort()
	case key.Matches(msg, m.keys.Reverse):
		m.focused().reverse()
	case key.Matches(msg, m.keys.Up):
		m.focused().move(-1)
	case key.Matches(msg, m.keys.Down):
		m.focused().move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.focused().page(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.focused().page(1)
	case key.Matches(msg, m.keys.Home):
		m.focused().home()
	case key.Matches(msg, m.keys.End):
		m.focused().end()
	}
	return nil
}

func (m *Model) stopFiltering() {
	m.filtering = false
	m.input.Blur()
	m.resize(m.width, m.height)
}

// lister is the part of a pane that does not depend on its item type.
type lister interface {
	move(delta int)
	page(delta int)
	home()
	end()
	cycleSort()
	reverse()
	setFilter(q string)
	filterText() string
}

func (m *Model) focused() lister {
	if m.focus == focusObjects {
		return m.objects
	}
	return m.symbols
}

// syncSymbols loads the symbols of the selected object into the symbols pane
// if the selection changed.
func (m *Model) syncSymbols() {
	obj, ok := m.objects.selected()
	if ok == m.hasShown && (!ok || obj.ID == m.shown) {
		return
	}
	m.shown, m.hasShown = obj.ID, ok
	if ok {
		m.symbols.setItems(m.byObject[obj.ID])
	} else {
		m.symbols.setItems(nil)
	}
}

// Fixed rows: two header lines, a title and column line per pane, and the
// status line.
const chromeRows = 2 + 2*2 + 1

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.input.Width = max(width-len(m.input.Prompt)-1, 1)

	rows := height - chromeRows - m.helpRows()
	objRows := max(rows/2, 1)
	m.objects.setHeight(objRows)
	m.symbols.setHeight(rows - objRows)
}

func (m *Model) helpRows() int {
	return strings.Count(m.help.View(m.keys), "\n") + 1
}
