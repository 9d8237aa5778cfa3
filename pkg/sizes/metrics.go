// Package sizes attributes the bytes of a linked binary to the object files
// and symbols that contributed them, by bucket (code, data, bss, other).
package sizes

import (
	"strconv"

	"linkerland.dev/pkg/mapfile"
)

// Sizes holds byte counts per bucket. Total is always the sum of the others.
type Sizes struct {
	Text  uint64 `json:"text"`
	Data  uint64 `json:"data"`
	Bss   uint64 `json:"bss"`
	Other uint64 `json:"other"`
	Total uint64 `json:"total"`
}

func (s *Sizes) add(b Bucket, n uint64) {
	switch b {
	case Text:
		s.Text += n
	case Data:
		s.Data += n
	case Bss:
		s.Bss += n
	default:
		s.Other += n
	}
	s.Total += n
}

func (s *Sizes) merge(o Sizes) {
	s.Text += o.Text
	s.Data += o.Data
	s.Bss += o.Bss
	s.Other += o.Other
	s.Total += o.Total
}

// Get returns the count for a single bucket.
func (s Sizes) Get(b Bucket) uint64 {
	switch b {
	case Text:
		return s.Text
	case Data:
		return s.Data
	case Bss:
		return s.Bss
	default:
		return s.Other
	}
}

// ObjectMetrics is the size attribution of one object file.
type ObjectMetrics struct {
	ID   int32  `json:"id"`
	Path string `json:"path"`
	Sizes
}

// SymbolMetrics is a symbol with its numeric fields resolved and its bucket
// determined.
type SymbolMetrics struct {
	Address   uint64 `json:"address"`
	Size      uint64 `json:"size"`
	FileIndex int32  `json:"file_index"` // -1 if the map's index text was unusable
	Name      string `json:"name"`
	Bucket    Bucket `json:"bucket"`
}

// Metrics is the result of aggregating a map file. It is not modified after
// it is returned.
type Metrics struct {
	// Objects has one entry per object file, in document order.
	Objects []ObjectMetrics `json:"objects"`
	// Symbols has one entry per symbol with a valid address, in document order.
	Symbols []SymbolMetrics `json:"symbols"`
	// Totals sums every entry in Symbols, including those whose file index
	// matches no object.
	Totals Sizes `json:"totals"`
	// Dropped counts the symbols left out of Symbols and Totals because
	// their address is not valid hex.
	Dropped int `json:"dropped"`
}

// Build aggregates the sizes of every symbol in m.
func Build(m *mapfile.MapFile) *Metrics {
	idx := NewSectionIndex(m.Sections)
	objects, lookup := newObjects(m.ObjectFiles)
	p := aggregate(idx, m.Symbols, lookup, len(objects))

	for pos, s := range p.objects {
		objects[pos].Sizes = s
	}
	return &Metrics{
		Objects: objects,
		Symbols: p.symbols,
		Totals:  p.totals,
		Dropped: p.dropped,
	}
}

func newObjects(files []mapfile.ObjectFile) ([]ObjectMetrics, map[int32]int) {
	objects := make([]ObjectMetrics, len(files))
	lookup := make(map[int32]int, len(files))
	for i, f := range files {
		objects[i] = ObjectMetrics{ID: f.Index, Path: f.Path}
		lookup[f.Index] = i
	}
	return objects, lookup
}

// partial is the aggregation of a contiguous run of symbols.
type partial struct {
	objects []Sizes // indexed like the document's object files
	symbols []SymbolMetrics
	totals  Sizes
	dropped int
}

func aggregate(idx *SectionIndex, syms []mapfile.Symbol, lookup map[int32]int, numObjects int) *partial {
	p := &partial{
		objects: make([]Sizes, numObjects),
		symbols: make([]SymbolMetrics, 0, len(syms)),
	}
	for _, sym := range syms {
		// An address that can't be read means the symbol can't be placed;
		// it is left out entirely. A bad size or file index only loses
		// that field.
		addr, ok := ParseHex(sym.Address)
		if !ok {
			p.dropped++
			continue
		}
		size, ok := ParseHex(sym.Size)
		if !ok {
			size = 0
		}
		fileIndex := parseFileIndex(sym.FileIndex)

		bucket := Other
		if r, ok := idx.Find(addr); ok {
			bucket = Classify(r.Segment, r.Section)
		}

		if pos, ok := lookup[fileIndex]; ok {
			p.objects[pos].add(bucket, size)
		}
		p.totals.add(bucket, size)

		p.symbols = append(p.symbols, SymbolMetrics{
			Address:   addr,
			Size:      size,
			FileIndex: fileIndex,
			Name:      sym.Name,
			Bucket:    bucket,
		})
	}
	return p
}

func parseFileIndex(s string) int32 {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return -1
	}
	return int32(n)
}
