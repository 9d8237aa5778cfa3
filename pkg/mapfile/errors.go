package mapfile

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrHeaderMismatch is the sentinel wrapped by every *ParseError.
var ErrHeaderMismatch = errors.New("block header mismatch")

// Header identifies one of the blocks of a map file.
type Header int

const (
	HeaderPath Header = iota
	HeaderArch
	HeaderObjectFiles
	HeaderSections
	HeaderSymbols
)

var headerLiterals = [...]string{
	HeaderPath:        "# Path:",
	HeaderArch:        "# Arch:",
	HeaderObjectFiles: "# Object files:",
	HeaderSections:    "# Sections:",
	HeaderSymbols:     "# Symbols:",
}

// Literal returns the text that introduces the block.
func (h Header) Literal() string { return headerLiterals[h] }

func (h Header) String() string {
	switch h {
	case HeaderPath:
		return "path"
	case HeaderArch:
		return "arch"
	case HeaderObjectFiles:
		return "object files"
	case HeaderSections:
		return "sections"
	case HeaderSymbols:
		return "symbols"
	default:
		return fmt.Sprintf("Header(%d)", int(h))
	}
}

// ParseError reports a block header that was not found where the document
// grammar requires it.
type ParseError struct {
	Expected Header
	Line     int    // 1-based
	Column   int    // 1-based, in bytes
	Found    string // text of the offending line, empty at end of input
}

func (e *ParseError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("mapfile:%d:%d: expected %q header for %s block, found end of input",
			e.Line, e.Column, e.Expected.Literal(), e.Expected)
	}
	return fmt.Sprintf("mapfile:%d:%d: expected %q header for %s block, found %q",
		e.Line, e.Column, e.Expected.Literal(), e.Expected, e.Found)
}

func (e *ParseError) Unwrap() error { return ErrHeaderMismatch }

const maxFoundLen = 60

func (p *parser) headerMismatch(h Header) error {
	line, col := p.s.line()
	found := (&scanner{src: p.s.src, pos: p.s.pos}).restOfLine()
	if len(found) > maxFoundLen {
		found = found[:maxFoundLen] + "..."
	}
	return errors.WithStack(&ParseError{
		Expected: h,
		Line:     line,
		Column:   col,
		Found:    found,
	})
}
