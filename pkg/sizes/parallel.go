package sizes

import (
	"golang.org/x/sync/errgroup"

	"linkerland.dev/pkg/mapfile"
)

// minPartition is the smallest number of symbols worth handing to a
// separate goroutine.
const minPartition = 4096

// BuildParallel is like Build but resolves symbols on up to workers
// goroutines. The result is identical to Build's.
//
// Symbols are split into contiguous partitions, each aggregated with its own
// counters; the partitions are then merged in document order.
func BuildParallel(m *mapfile.MapFile, workers int) *Metrics {
	n := len(m.Symbols)
	if workers > n/minPartition {
		workers = n / minPartition
	}
	if workers <= 1 {
		return Build(m)
	}

	idx := NewSectionIndex(m.Sections)
	objects, lookup := newObjects(m.ObjectFiles)

	parts := make([]*partial, workers)
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for i := range parts {
		lo := min(i*chunk, n)
		hi := min(lo+chunk, n)
		g.Go(func() error {
			parts[i] = aggregate(idx, m.Symbols[lo:hi], lookup, len(objects))
			return nil
		})
	}
	// Aggregation cannot fail, so Wait only joins the workers.
	_ = g.Wait()

	res := &Metrics{Objects: objects}
	total := 0
	for _, p := range parts {
		total += len(p.symbols)
	}
	res.Symbols = make([]SymbolMetrics, 0, total)
	for _, p := range parts {
		for pos, s := range p.objects {
			res.Objects[pos].Sizes.merge(s)
		}
		res.Symbols = append(res.Symbols, p.symbols...)
		res.Totals.merge(p.totals)
		res.Dropped += p.dropped
	}
	return res
}
