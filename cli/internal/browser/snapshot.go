// Package browser implements the interactive terminal view of a map file's
// size metrics.
package browser

import (
	"github.com/grafana/regexp"

	"linkerland.dev/pkg/mapfile"
	"linkerland.dev/pkg/sizes"
)

// Snapshot is everything the browser shows. It owns its data and is not
// modified while the browser runs.
type Snapshot struct {
	TargetPath string
	Arch       string
	Format     string
	Objects    []sizes.ObjectMetrics
	Symbols    []sizes.SymbolMetrics
	Totals     sizes.Sizes
}

// NewSnapshot copies what the browser needs out of m and its metrics.
// If filter is non-nil only symbols whose name it matches are listed;
// the totals still cover every symbol.
func NewSnapshot(m *mapfile.MapFile, metrics *sizes.Metrics, filter *regexp.Regexp) *Snapshot {
	s := &Snapshot{
		TargetPath: m.TargetPath,
		Arch:       m.Arch,
		Format:     m.Format.String(),
		Objects:    append([]sizes.ObjectMetrics(nil), metrics.Objects...),
		Totals:     metrics.Totals,
	}
	for _, sym := range metrics.Symbols {
		if filter == nil || filter.MatchString(sym.Name) {
			s.Symbols = append(s.Symbols, sym)
		}
	}
	return s
}

// symbolsByObject groups the symbol list by file index, keeping document order.
func (s *Snapshot) symbolsByObject() map[int32][]sizes.SymbolMetrics {
	by := make(map[int32][]sizes.SymbolMetrics, len(s.Objects))
	for _, sym := range s.Symbols {
		by[sym.FileIndex] = append(by[sym.FileIndex], sym)
	}
	return by
}
