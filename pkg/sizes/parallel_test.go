package sizes

import (
	"fmt"
	"slices"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"

	"linkerland.dev/pkg/mapfile"
)

// syntheticMap builds a map with n symbols spread over a handful of objects
// and sections, including symbols that hit every field conversion policy.
func syntheticMap(n int) *mapfile.MapFile {
	m := &mapfile.MapFile{
		TargetPath: "/tmp/big",
		Arch:       "arm64",
		Format:     mapfile.MachO,
		Sections: []mapfile.Section{
			{Address: "0x100000000", Size: "0x100000", Segment: "__TEXT", Section: "__text"},
			{Address: "0x100100000", Size: "0x100000", Segment: "__DATA", Section: "__data"},
			{Address: "0x100200000", Size: "0x100000", Segment: "__DATA", Section: "__bss"},
			{Address: "0x100300000", Size: "0x100000", Segment: "__DATA", Section: "__la_symbol_ptr"},
		},
	}
	for i := 0; i < 8; i++ {
		m.ObjectFiles = append(m.ObjectFiles, mapfile.ObjectFile{Index: int32(i), Path: fmt.Sprintf("obj%d.o", i)})
	}
	for i := 0; i < n; i++ {
		sym := mapfile.Symbol{
			Address:   fmt.Sprintf("0x%X", 0x100000000+uint64(i)*0x100),
			Size:      fmt.Sprintf("0x%08X", i%97),
			FileIndex: fmt.Sprint(i % 10), // 8 and 9 match no object
			Name:      fmt.Sprintf("_sym%d", i),
		}
		switch {
		case i%1013 == 0:
			sym.Address = "0xNOPE"
		case i%701 == 0:
			sym.Size = "0xQQ"
		}
		m.Symbols = append(m.Symbols, sym)
	}
	return m
}

func TestBuildParallel_MatchesBuild(t *testing.T) {
	c := qt.New(t)
	m := syntheticMap(50_000)
	want := Build(m)
	c.Assert(want.Dropped > 0, qt.IsTrue)
	i := slices.IndexFunc(want.Symbols, func(s SymbolMetrics) bool { return s.Name == "_sym701" })
	c.Assert(i >= 0, qt.IsTrue)
	c.Assert(want.Symbols[i].Size, qt.Equals, uint64(0))

	for _, workers := range []int{2, 3, 4, 8, 64} {
		got := BuildParallel(m, workers)
		if diff := cmp.Diff(want, got); diff != "" {
			c.Fatalf("workers=%d: result differs from Build (-want +got):\n%s", workers, diff)
		}
	}
}

func TestBuildParallel_SmallInputs(t *testing.T) {
	c := qt.New(t)
	for _, n := range []int{0, 1, minPartition - 1, minPartition + 1} {
		m := syntheticMap(n)
		got := BuildParallel(m, 8)
		if diff := cmp.Diff(Build(m), got); diff != "" {
			c.Fatalf("n=%d: result differs from Build (-want +got):\n%s", n, diff)
		}
	}
	c.Assert(BuildParallel(minimalMap(), 0).Totals.Text, qt.Equals, uint64(0x10))
}
