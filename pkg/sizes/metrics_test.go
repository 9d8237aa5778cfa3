package sizes

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"go.uber.org/goleak"

	"linkerland.dev/pkg/mapfile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func minimalMap() *mapfile.MapFile {
	return &mapfile.MapFile{
		TargetPath:  "/tmp/app",
		Arch:        "arm64",
		Format:      mapfile.MachO,
		ObjectFiles: []mapfile.ObjectFile{{Index: 1, Path: "a.o"}},
		Sections:    []mapfile.Section{{Address: "0x1000", Size: "0x50", Segment: "__TEXT", Section: "__text"}},
		Symbols:     []mapfile.Symbol{{Address: "0x1000", Size: "0x10", FileIndex: "1", Name: "_foo"}},
	}
}

func TestBuild_Minimal(t *testing.T) {
	c := qt.New(t)
	res := Build(minimalMap())
	c.Assert(res.Objects, qt.HasLen, 1)
	c.Assert(res.Objects[0].ID, qt.Equals, int32(1))
	c.Assert(res.Objects[0].Text, qt.Equals, uint64(0x10))
	c.Assert(res.Totals.Text, qt.Equals, uint64(0x10))
	c.Assert(res.Symbols, qt.HasLen, 1)
	c.Assert(res.Symbols[0], qt.Equals, SymbolMetrics{
		Address:   0x1000,
		Size:      0x10,
		FileIndex: 1,
		Name:      "_foo",
		Bucket:    Text,
	})
}

const linkerMap = `# Path: /tmp/sample-app
# Arch: arm64
# Object files:
[  0] linker synthesized
[  1] /tmp/main.o
[  2] /tmp/lib.o
[  3] /usr/lib/libSystem.tbd
# Sections:
# Address	Size    	Segment	Section
0x100000F50	0x00000124	__TEXT	__text
0x100001074	0x0000000C	__TEXT	__stubs
0x100001080	0x00000040	__TEXT	__cstring
0x100004000	0x00000010	__DATA_CONST	__got
0x100008000	0x00000020	__DATA	__data
0x100008020	0x00000008	__DATA	__mod_init_func
0x100008028	0x00000030	__DATA	__bss
0x100008058	0x00000010	__DATA	__common
0x10000C000	0x00000100	__LINKEDIT	__linkedit
# Symbols:
# Address	Size    	File  Name
0x100000F50	0x00000034	[  1] _main
0x100000F84	0x000000F0	[  2] __ZN3std2rt10lang_start17h1234567890abcdefE
0x100001074	0x0000000C	[  3] _printf
0x100001080	0x00000040	[  1] literal string: hello, world
0x100004000	0x00000010	[  0] non-lazy-pointer-to-local: _main
0x100008000	0x00000020	[  2] _CONFIG
0x100008020	0x00000008	[  0] __mod_init_ptrs
0x100008028	0x00000030	[  1] _counter
0x100008058	0x00000010	[  2] _common_buf
0x10000C010	0x00000004	[  9] _orphan_linkedit
0x200000000	0x00000002	[  1] _outside
0xZZZZ	0x00000100	[  1] _bad_address
0x100000F60	0xQQ	[  1] _bad_size
`

func parse(c *qt.C, src string) *mapfile.MapFile {
	c.Helper()
	m, err := mapfile.Parse(src)
	c.Assert(err, qt.IsNil)
	return m
}

func TestBuild_Linker(t *testing.T) {
	c := qt.New(t)
	res := Build(parse(c, linkerMap))

	c.Assert(res.Objects, qt.DeepEquals, []ObjectMetrics{
		{ID: 0, Path: "linker synthesized", Sizes: Sizes{Data: 0x18, Total: 0x18}},
		{ID: 1, Path: "/tmp/main.o", Sizes: Sizes{Text: 0x74, Bss: 0x30, Other: 0x2, Total: 0xA6}},
		{ID: 2, Path: "/tmp/lib.o", Sizes: Sizes{Text: 0xF0, Data: 0x20, Bss: 0x10, Total: 0x120}},
		{ID: 3, Path: "/usr/lib/libSystem.tbd", Sizes: Sizes{Text: 0xC, Total: 0xC}},
	})
	c.Assert(res.Totals, qt.Equals, Sizes{Text: 0x170, Data: 0x38, Bss: 0x40, Other: 0x6, Total: 0x1EE})
	c.Assert(res.Dropped, qt.Equals, 1)

	// The symbol with an unreadable address is gone, the one with an
	// unreadable size stays with size zero.
	c.Assert(res.Symbols, qt.HasLen, 12)
	last := res.Symbols[len(res.Symbols)-1]
	c.Assert(last, qt.Equals, SymbolMetrics{Address: 0x100000F60, Size: 0, FileIndex: 1, Name: "_bad_size", Bucket: Text})
	for _, s := range res.Symbols {
		c.Assert(s.Name, qt.Not(qt.Equals), "_bad_address")
	}

	c.Assert(res.Symbols[9].Bucket, qt.Equals, Other)  // __LINKEDIT
	c.Assert(res.Symbols[10].Bucket, qt.Equals, Other) // outside every section
}

func TestBuild_Invariants(t *testing.T) {
	c := qt.New(t)
	res := Build(parse(c, linkerMap))

	var sum uint64
	for _, s := range res.Symbols {
		sum += s.Size
	}
	c.Assert(res.Totals.Total, qt.Equals, sum)
	assertConsistent(c, res.Totals)

	var objSum uint64
	for _, o := range res.Objects {
		assertConsistent(c, o.Sizes)
		objSum += o.Total
	}
	// _orphan_linkedit belongs to no known object.
	c.Assert(objSum < res.Totals.Total, qt.IsTrue)
	c.Assert(res.Totals.Total-objSum, qt.Equals, uint64(0x4))
}

func assertConsistent(c *qt.C, s Sizes) {
	c.Helper()
	c.Assert(s.Text+s.Data+s.Bss+s.Other, qt.Equals, s.Total)
}

func TestBuild_OrderPreserved(t *testing.T) {
	c := qt.New(t)
	m := parse(c, linkerMap)
	res := Build(m)
	j := 0
	for _, sym := range m.Symbols {
		if _, ok := ParseHex(sym.Address); !ok {
			continue
		}
		c.Assert(res.Symbols[j].Name, qt.Equals, sym.Name)
		j++
	}
	for i, o := range res.Objects {
		c.Assert(o.ID, qt.Equals, m.ObjectFiles[i].Index)
	}
}

func TestBuild_DroppedSymbol(t *testing.T) {
	c := qt.New(t)
	m := minimalMap()
	m.Symbols = []mapfile.Symbol{{Address: "0xZZZZ", Size: "0x10", FileIndex: "1", Name: "_bad"}}
	res := Build(m)
	c.Assert(res.Symbols, qt.HasLen, 0)
	c.Assert(res.Totals, qt.Equals, Sizes{})
	c.Assert(res.Objects[0].Sizes, qt.Equals, Sizes{})
	c.Assert(res.Dropped, qt.Equals, 1)
}

func TestBuild_UnparseableFileIndex(t *testing.T) {
	c := qt.New(t)
	m := minimalMap()
	m.Symbols = []mapfile.Symbol{{Address: "0x1000", Size: "0x10", FileIndex: "99999999999", Name: "_big"}}
	res := Build(m)
	c.Assert(res.Symbols[0].FileIndex, qt.Equals, int32(-1))
	c.Assert(res.Objects[0].Total, qt.Equals, uint64(0))
	c.Assert(res.Totals.Text, qt.Equals, uint64(0x10))
}

func TestBuild_Empty(t *testing.T) {
	c := qt.New(t)
	res := Build(&mapfile.MapFile{})
	c.Assert(res.Objects, qt.HasLen, 0)
	c.Assert(res.Symbols, qt.HasLen, 0)
	c.Assert(res.Totals, qt.Equals, Sizes{})
}

func TestSizes_Get(t *testing.T) {
	c := qt.New(t)
	s := Sizes{Text: 1, Data: 2, Bss: 3, Other: 4, Total: 10}
	c.Assert(s.Get(Text), qt.Equals, uint64(1))
	c.Assert(s.Get(Data), qt.Equals, uint64(2))
	c.Assert(s.Get(Bss), qt.Equals, uint64(3))
	c.Assert(s.Get(Other), qt.Equals, uint64(4))
}
