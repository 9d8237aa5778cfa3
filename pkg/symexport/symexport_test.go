package symexport

import (
	"bytes"
	"encoding/csv"
	stdjson "encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/grafana/regexp"

	"linkerland.dev/pkg/mapfile"
)

var sample = []mapfile.Symbol{
	{Address: "0x1000", Size: "0x10", FileIndex: "2", Name: "_main"},
	{Address: "0x1010", Size: "0x40", FileIndex: "1", Name: "_alloc"},
	{Address: "0x1050", Size: "0xQQ", FileIndex: "x", Name: "_weird"},
	{Address: "0x1060", Size: "0x10", FileIndex: "0", Name: "_zzz"},
	{Address: "0x1070", Size: "0x04", FileIndex: "1", Name: "_Alloc_small"},
}

func names(syms []mapfile.Symbol) []string {
	var out []string
	for _, s := range syms {
		out = append(out, s.Name)
	}
	return out
}

func TestSelect(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{
			name: "size_asc",
			q:    Query{Key: BySize, Order: Asc},
			want: []string{"_weird", "_Alloc_small", "_main", "_zzz", "_alloc"},
		},
		{
			name: "size_desc",
			q:    Query{Key: BySize, Order: Desc},
			want: []string{"_alloc", "_main", "_zzz", "_Alloc_small", "_weird"},
		},
		{
			name: "name_asc",
			q:    Query{Key: ByName, Order: Asc},
			want: []string{"_Alloc_small", "_alloc", "_main", "_weird", "_zzz"},
		},
		{
			name: "path_asc",
			q:    Query{Key: ByPath, Order: Asc},
			want: []string{"_weird", "_zzz", "_alloc", "_Alloc_small", "_main"},
		},
		{
			name: "path_desc",
			q:    Query{Key: ByPath, Order: Desc},
			want: []string{"_main", "_alloc", "_Alloc_small", "_zzz", "_weird"},
		},
		{
			name: "filter",
			q:    Query{Filter: regexp.MustCompile(`(?i)alloc`), Key: BySize, Order: Desc},
			want: []string{"_alloc", "_Alloc_small"},
		},
		{
			name: "filter_none",
			q:    Query{Filter: regexp.MustCompile(`^nothing$`), Key: BySize, Order: Asc},
			want: nil,
		},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(names(Select(sample, tt.q)), qt.DeepEquals, tt.want)
		})
	}
}

func TestSelect_OverflowingSize(t *testing.T) {
	c := qt.New(t)
	syms := []mapfile.Symbol{
		{Address: "0x1000", Size: "0x10", FileIndex: "1", Name: "_small"},
		{Address: "0x1010", Size: "0x10000000000000000", FileIndex: "1", Name: "_overflow"},
	}
	c.Assert(names(Select(syms, Query{Key: BySize, Order: Desc})), qt.DeepEquals, []string{"_small", "_overflow"})
	c.Assert(names(Select(syms, Query{Key: BySize, Order: Asc})), qt.DeepEquals, []string{"_overflow", "_small"})
}

func TestSelect_DoesNotMutate(t *testing.T) {
	c := qt.New(t)
	in := append([]mapfile.Symbol(nil), sample...)
	_ = Select(in, Query{Key: ByName, Order: Desc})
	c.Assert(in, qt.DeepEquals, sample)
}

func TestWriteJSON(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	err := WriteJSON(&buf, sample[:1])
	c.Assert(err, qt.IsNil)
	c.Assert(buf.String(), qt.Equals, `[
  {
    "address": "0x1000",
    "size": "0x10",
    "file_index": "2",
    "name": "_main"
  }
]
`)

	var back []mapfile.Symbol
	c.Assert(stdjson.Unmarshal(buf.Bytes(), &back), qt.IsNil)
	c.Assert(back, qt.DeepEquals, sample[:1])
}

func TestWriteJSON_Empty(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(WriteJSON(&buf, nil), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "[]\n")
}

func TestWriteCSV(t *testing.T) {
	c := qt.New(t)
	syms := []mapfile.Symbol{
		{Address: "0x1000", Size: "0x10", FileIndex: "2", Name: "_main"},
		{Address: "0x1080", Size: "0x40", FileIndex: "1", Name: "literal string: hello, world"},
	}
	var buf bytes.Buffer
	c.Assert(WriteCSV(&buf, syms), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "address,size,file_index,name\n"+
		"0x1000,0x10,2,_main\n"+
		"0x1080,0x40,1,\"literal string: hello, world\"\n")

	records, err := csv.NewReader(&buf).ReadAll()
	c.Assert(err, qt.IsNil)
	c.Assert(records, qt.HasLen, 3)
	c.Assert(records[2][3], qt.Equals, "literal string: hello, world")
}

func TestWriteCSV_Empty(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(WriteCSV(&buf, nil), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "address,size,file_index,name\n")
}
