package mapfile

import (
	"strconv"
	"strings"
)

type parser struct {
	s scanner
}

func (p *parser) parseMapFile() (*MapFile, error) {
	m := &MapFile{}
	var err error
	if m.TargetPath, err = p.textHeader(HeaderPath); err != nil {
		return nil, err
	}
	if m.Arch, err = p.textHeader(HeaderArch); err != nil {
		return nil, err
	}
	if m.ObjectFiles, err = p.objectFiles(); err != nil {
		return nil, err
	}
	if m.Sections, err = p.sections(); err != nil {
		return nil, err
	}
	if m.Symbols, err = p.symbols(); err != nil {
		return nil, err
	}
	return m, nil
}

// header consumes the literal introducing block h, skipping any blank lines
// before it.
func (p *parser) header(h Header) error {
	p.s.skipSpace()
	if !p.s.literal(h.Literal()) {
		return p.headerMismatch(h)
	}
	return nil
}

// textHeader parses a single-line block such as "# Path: <value>".
func (p *parser) textHeader(h Header) (string, error) {
	if err := p.header(h); err != nil {
		return "", err
	}
	p.s.skipBlanks()
	return strings.TrimRight(p.s.restOfLine(), " \t"), nil
}

// tableHeader parses the header line of a table block. If caption is set the
// line after it is a column caption ("# Address Size ...") and is discarded.
func (p *parser) tableHeader(h Header, caption bool) error {
	if err := p.header(h); err != nil {
		return err
	}
	// Whatever follows the literal on its line carries no data.
	p.s.restOfLine()
	p.s.lineEnd()
	if caption {
		p.skipCaption()
	}
	return nil
}

// skipCaption discards the column caption line, whatever its contents. If
// the next line is already a block header the table has no caption and
// nothing is consumed.
func (p *parser) skipCaption() {
	start := p.s.pos
	p.s.skipSpace()
	if p.s.eof() || p.atHeader() {
		p.s.pos = start
		return
	}
	p.s.restOfLine()
	p.s.lineEnd()
}

// atHeader reports whether a known block header starts at the current
// position. Headers are only recognized at the start of a line.
func (p *parser) atHeader() bool {
	if !p.s.atLineStart() {
		return false
	}
	rest := p.s.rest()
	for _, lit := range headerLiterals {
		if strings.HasPrefix(rest, lit) {
			return true
		}
	}
	return false
}

// rows runs row until the input is exhausted, the next block header is
// reached, or a row fails to parse. A failing row is not consumed.
func rows[T any](p *parser, row func() (T, bool)) []T {
	var out []T
	for {
		p.s.skipSpace()
		if p.s.eof() || p.atHeader() {
			return out
		}
		start := p.s.pos
		v, ok := row()
		if !ok {
			p.s.pos = start
			return out
		}
		out = append(out, v)
	}
}

func (p *parser) objectFiles() ([]ObjectFile, error) {
	if err := p.tableHeader(HeaderObjectFiles, false); err != nil {
		return nil, err
	}
	return rows(p, p.objectFile), nil
}

// objectFile parses "[ <index>] <path>".
func (p *parser) objectFile() (ObjectFile, bool) {
	idx, ok := p.s.index()
	if !ok {
		return ObjectFile{}, false
	}
	n, err := strconv.ParseInt(idx, 10, 32)
	if err != nil {
		return ObjectFile{}, false
	}
	p.s.skipBlanks()
	path := p.s.restOfLine()
	return ObjectFile{Index: int32(n), Path: path}, p.s.lineEnd()
}

func (p *parser) sections() ([]Section, error) {
	if err := p.tableHeader(HeaderSections, true); err != nil {
		return nil, err
	}
	return rows(p, p.section), nil
}

// section parses "<0xaddr> <0xsize> <__SEGMENT> <__section>".
func (p *parser) section() (Section, bool) {
	var sec Section
	var ok bool
	if sec.Address, ok = p.s.number(); !ok {
		return sec, false
	}
	p.s.skipBlanks()
	if sec.Size, ok = p.s.number(); !ok {
		return sec, false
	}
	p.s.skipBlanks()
	if sec.Segment, ok = p.machoName(); !ok {
		return sec, false
	}
	p.s.skipBlanks()
	if sec.Section, ok = p.machoName(); !ok {
		return sec, false
	}
	return sec, p.s.lineEnd()
}

// machoName parses a segment or section name, which always starts with a
// double underscore.
func (p *parser) machoName() (string, bool) {
	if !strings.HasPrefix(p.s.rest(), "__") {
		return "", false
	}
	name := p.s.word()
	return name, len(name) > len("__")
}

func (p *parser) symbols() ([]Symbol, error) {
	if err := p.tableHeader(HeaderSymbols, true); err != nil {
		return nil, err
	}
	return rows(p, p.symbol), nil
}

// symbol parses "<0xaddr> <0xsize> [ <file>] <name>". The name is the rest
// of the line and may contain blanks.
func (p *parser) symbol() (Symbol, bool) {
	var sym Symbol
	var ok bool
	if sym.Address, ok = p.s.number(); !ok {
		return sym, false
	}
	p.s.skipBlanks()
	if sym.Size, ok = p.s.number(); !ok {
		return sym, false
	}
	p.s.skipBlanks()
	if sym.FileIndex, ok = p.s.index(); !ok {
		return sym, false
	}
	p.s.skipBlanks()
	sym.Name = p.s.restOfLine()
	return sym, p.s.lineEnd()
}
