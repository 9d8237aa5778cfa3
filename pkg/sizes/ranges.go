package sizes

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"linkerland.dev/pkg/mapfile"
)

// SectionRange is the half-open address interval [Start, End) covered by
// a section.
type SectionRange struct {
	Start   uint64
	End     uint64
	Segment string
	Section string
}

// SectionIndex answers which section contains an address.
type SectionIndex struct {
	ranges []SectionRange // sorted by Start
}

// NewSectionIndex builds the index for the given sections.
//
// Sections whose address or size is not valid hex are left out. End is
// computed with saturating arithmetic, so a corrupt size never wraps around.
// Ranges are assumed not to overlap; nothing checks that they don't.
func NewSectionIndex(sections []mapfile.Section) *SectionIndex {
	ranges := make([]SectionRange, 0, len(sections))
	for _, s := range sections {
		start, ok := ParseHex(s.Address)
		if !ok {
			continue
		}
		size, ok := ParseHex(s.Size)
		if !ok {
			continue
		}
		end := start + size
		if end < start {
			end = ^uint64(0)
		}
		ranges = append(ranges, SectionRange{
			Start:   start,
			End:     end,
			Segment: s.Segment,
			Section: s.Section,
		})
	}
	// Stable so that among equal starts the last one in the document wins.
	slices.SortStableFunc(ranges, func(a, b SectionRange) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return &SectionIndex{ranges: ranges}
}

// Find returns the section containing addr.
//
// It picks the range with the greatest Start not exceeding addr, and reports
// false if there is none or addr is past its End. With overlapping ranges
// that is the nearest start, not necessarily the tightest fit.
func (x *SectionIndex) Find(addr uint64) (SectionRange, bool) {
	i := sort.Search(len(x.ranges), func(i int) bool {
		return x.ranges[i].Start > addr
	})
	if i == 0 {
		return SectionRange{}, false
	}
	r := x.ranges[i-1]
	if addr >= r.End {
		return SectionRange{}, false
	}
	return r, true
}

// Len reports the number of indexed ranges.
func (x *SectionIndex) Len() int { return len(x.ranges) }

// Ranges returns a copy of the indexed ranges in address order.
func (x *SectionIndex) Ranges() []SectionRange { return slices.Clone(x.ranges) }

// Bucket classifies where a symbol's bytes end up on disk or in memory.
type Bucket int

const (
	Text  Bucket = iota // code
	Data                // initialized data
	Bss                 // zero-filled data
	Other
)

func (b Bucket) String() string {
	switch b {
	case Text:
		return "text"
	case Data:
		return "data"
	case Bss:
		return "bss"
	default:
		return "other"
	}
}

func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

var (
	dataSections = []string{"__data", "__const", "__got", "__mod_init_func", "__cstring", "__const_coal"}
	bssSections  = []string{"__bss", "__bss_coal", "__common"}
)

// Classify maps a segment and section name to a bucket. Names are compared
// case-insensitively. Everything in the __TEXT segment is code, whatever the
// section.
func Classify(segment, section string) Bucket {
	if strings.EqualFold(segment, "__TEXT") {
		return Text
	}
	if containsFold(dataSections, section) {
		return Data
	}
	if containsFold(bssSections, section) {
		return Bss
	}
	return Other
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool {
		return strings.EqualFold(v, s)
	})
}

// ParseHex converts map file hex text, with or without the 0x prefix,
// to an integer. It returns 0 and false if s is not valid hex or does not
// fit in 64 bits.
func ParseHex(s string) (uint64, bool) {
	s = strings.TrimPrefix(s, "0x")
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		// ParseUint reports out of range values as the maximum.
		return 0, false
	}
	return n, true
}
