// Package symexport selects symbols from a map file and writes them out as
// JSON or CSV.
package symexport

import (
	"cmp"
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/grafana/regexp"
	jsoniter "github.com/json-iterator/go"

	"linkerland.dev/pkg/mapfile"
	"linkerland.dev/pkg/sizes"
)

// SortKey is the field symbols are ordered by.
type SortKey string

const (
	BySize SortKey = "size"
	ByName SortKey = "name"
	ByPath SortKey = "path" // the owning object's index
)

// Order is the direction of a sort.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Query describes which symbols to export and in what order.
type Query struct {
	// Filter, if non-nil, keeps only symbols whose name it matches.
	Filter *regexp.Regexp
	Key    SortKey
	Order  Order
}

// Select returns the symbols matching q, sorted as q specifies.
// The sort is stable and syms is left untouched.
func Select(syms []mapfile.Symbol, q Query) []mapfile.Symbol {
	out := make([]mapfile.Symbol, 0, len(syms))
	for _, s := range syms {
		if q.Filter == nil || q.Filter.MatchString(s.Name) {
			out = append(out, s)
		}
	}

	compare := compareFunc(q.Key)
	if q.Order == Desc {
		asc := compare
		compare = func(a, b mapfile.Symbol) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func compareFunc(key SortKey) func(a, b mapfile.Symbol) int {
	switch key {
	case ByName:
		return func(a, b mapfile.Symbol) int { return cmp.Compare(a.Name, b.Name) }
	case ByPath:
		return func(a, b mapfile.Symbol) int { return cmp.Compare(fileIndex(a), fileIndex(b)) }
	default:
		return func(a, b mapfile.Symbol) int { return cmp.Compare(size(a), size(b)) }
	}
}

// size is the symbol's size for sorting. Unreadable sizes sort as 0.
func size(s mapfile.Symbol) uint64 {
	n, ok := sizes.ParseHex(s.Size)
	if !ok {
		return 0
	}
	return n
}

func fileIndex(s mapfile.Symbol) int64 {
	n, err := strconv.ParseInt(s.FileIndex, 10, 32)
	if err != nil {
		return -1
	}
	return n
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes syms as an indented JSON array.
func WriteJSON(w io.Writer, syms []mapfile.Symbol) error {
	if syms == nil {
		syms = []mapfile.Symbol{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(syms), "encode symbols")
}

var csvHeader = []string{"address", "size", "file_index", "name"}

// WriteCSV writes syms as CSV with a header row.
func WriteCSV(w io.Writer, syms []mapfile.Symbol) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, s := range syms {
		if err := cw.Write([]string{s.Address, s.Size, s.FileIndex, s.Name}); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
