// Package mapfile parses the text map reports written by the ld64 linker
// (the -map flag) into a typed document.
//
// A map file is a sequence of blocks, always in the same order:
//
//	# Path: /path/to/binary
//	# Arch: arm64
//	# Object files:
//	[  0] linker synthesized
//	[  1] /path/to/main.o
//	# Sections:
//	# Address	Size    	Segment	Section
//	0x100003F50	0x00000034	__TEXT	__text
//	# Symbols:
//	# Address	Size    	File  Name
//	0x100003F50	0x00000034	[  1] _main
//
// Numeric fields are kept as the text found in the file. Converting them to
// integers is left to consumers such as package sizes.
package mapfile

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// ObjectFile is one row of the "# Object files:" block.
type ObjectFile struct {
	// Index identifies the object within the document.
	// Indices are unique but not necessarily contiguous or zero-based.
	Index int32  `json:"index"`
	Path  string `json:"path"`
}

// Section is one row of the "# Sections:" block.
type Section struct {
	Address string `json:"address"` // hex text, e.g. "0x100003F50"
	Size    string `json:"size"`    // hex text
	Segment string `json:"segment"` // e.g. "__TEXT"
	Section string `json:"section"` // e.g. "__text"
}

// Symbol is one row of the "# Symbols:" block.
type Symbol struct {
	Address   string `json:"address"`    // hex text
	Size      string `json:"size"`       // hex text
	FileIndex string `json:"file_index"` // decimal text of the owning ObjectFile.Index
	Name      string `json:"name"`
}

// MapFile is a parsed map file.
//
// Each slice holds its rows in the order they appear in the source.
type MapFile struct {
	TargetPath  string
	Arch        string
	Format      Format
	ObjectFiles []ObjectFile
	Sections    []Section
	Symbols     []Symbol
}

// Format is the binary format a map file describes.
type Format int

const (
	Unknown Format = iota
	MachO
)

func (f Format) String() string {
	switch f {
	case MachO:
		return "Mach-O"
	default:
		return "unknown"
	}
}

// detectFormat reports MachO if any section uses a Mach-O style segment
// name (two underscores followed by upper case letters, like __TEXT).
func detectFormat(sections []Section) Format {
	for _, s := range sections {
		name, ok := strings.CutPrefix(s.Segment, "__")
		if !ok || name == "" {
			continue
		}
		if strings.ToUpper(name) == name {
			return MachO
		}
	}
	return Unknown
}

// ParseFile reads and parses the map file at path.
func ParseFile(path string) (*MapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read map file %s", path)
	}
	return Parse(string(data))
}

// Parse parses the contents of a map file.
//
// It either returns a complete document or an error; a failure to find one of
// the block headers where it is expected is reported as a *ParseError.
// Malformed rows end the block they appear in and are otherwise dropped.
func Parse(src string) (*MapFile, error) {
	p := &parser{s: scanner{src: src}}
	m, err := p.parseMapFile()
	if err != nil {
		return nil, err
	}
	m.Format = detectFormat(m.Sections)
	return m, nil
}
