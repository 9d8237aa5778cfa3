package browser

import (
	"slices"
	"strings"
)

type sortKey[T any] struct {
	name    string
	compare func(a, b T) int
}

// pane is a scrollable, filterable and sortable list.
type pane[T any] struct {
	title string
	keys  []sortKey[T]
	// match reports whether item matches query, which is lower case.
	match func(item T, query string) bool

	items   []T
	visible []int // indices into items after filtering and sorting

	filter  string
	sortIdx int
	desc    bool

	cursor int // index into visible
	offset int // index into visible of the first row shown
	height int // rows shown at once
}

func (p *pane[T]) setItems(items []T) {
	p.items = items
	p.cursor, p.offset = 0, 0
	p.refresh(-1)
}

func (p *pane[T]) setFilter(q string) {
	if q == p.filter {
		return
	}
	p.filter = q
	p.refresh(p.selectedIndex())
}

func (p *pane[T]) setSort(name string, desc bool) {
	for i, k := range p.keys {
		if k.name == name {
			p.sortIdx = i
		}
	}
	p.desc = desc
	p.refresh(p.selectedIndex())
}

func (p *pane[T]) cycleSort() {
	p.sortIdx = (p.sortIdx + 1) % len(p.keys)
	p.refresh(p.selectedIndex())
}

func (p *pane[T]) reverse() {
	p.desc = !p.desc
	p.refresh(p.selectedIndex())
}

func (p *pane[T]) sortName() string {
	return p.keys[p.sortIdx].name
}

// refresh recomputes the visible rows. If keep is the index of an item that
// is still visible afterwards, the cursor follows it.
func (p *pane[T]) refresh(keep int) {
	q := strings.ToLower(p.filter)
	p.visible = p.visible[:0]
	for i, item := range p.items {
		if q == "" || p.match(item, q) {
			p.visible = append(p.visible, i)
		}
	}

	compare := p.keys[p.sortIdx].compare
	slices.SortStableFunc(p.visible, func(a, b int) int {
		c := compare(p.items[a], p.items[b])
		if p.desc {
			c = -c
		}
		return c
	})

	if keep >= 0 {
		p.cursor = max(0, slices.Index(p.visible, keep))
	}
	p.clamp()
}

func (p *pane[T]) setHeight(h int) {
	p.height = max(h, 1)
	p.clamp()
}

func (p *pane[T]) move(delta int) {
	p.cursor += delta
	p.clamp()
}

func (p *pane[T]) page(delta int) {
	p.move(delta * p.height)
}

func (p *pane[T]) home() {
	p.cursor = 0
	p.clamp()
}

func (p *pane[T]) end() {
	p.cursor = len(p.visible) - 1
	p.clamp()
}

// clamp keeps the cursor on a visible row and the row inside the viewport.
func (p *pane[T]) clamp() {
	h := max(p.height, 1)
	n := len(p.visible)
	p.cursor = min(max(p.cursor, 0), max(n-1, 0))

	if p.cursor < p.offset {
		p.offset = p.cursor
	} else if p.cursor >= p.offset+h {
		p.offset = p.cursor - h + 1
	}
	p.offset = min(p.offset, max(n-h, 0))
	p.offset = max(p.offset, 0)
}

func (p *pane[T]) selectedIndex() int {
	if p.cursor < len(p.visible) {
		return p.visible[p.cursor]
	}
	return -1
}

func (p *pane[T]) selected() (T, bool) {
	if i := p.selectedIndex(); i >= 0 {
		return p.items[i], true
	}
	var zero T
	return zero, false
}

// window returns the rows in the viewport and the position of the cursor
// among them.
func (p *pane[T]) window() (rows []T, cursor int) {
	end := min(p.offset+max(p.height, 1), len(p.visible))
	for _, i := range p.visible[p.offset:end] {
		rows = append(rows, p.items[i])
	}
	return rows, p.cursor - p.offset
}

func (p *pane[T]) filterText() string {
	return p.filter
}
