package browser

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Units selects how byte counts are displayed.
type Units int

const (
	Human Units = iota // binary prefixes, such as 1.5 KiB
	Hex                // 0x5DC
)

// ParseUnits maps "human" and "hex" to their Units.
func ParseUnits(s string) (Units, bool) {
	switch s {
	case "human":
		return Human, true
	case "hex":
		return Hex, true
	}
	return Human, false
}

func (u Units) String() string {
	if u == Hex {
		return "hex"
	}
	return "human"
}

func (u Units) toggle() Units {
	if u == Hex {
		return Human
	}
	return Hex
}

// Format renders n bytes.
func (u Units) Format(n uint64) string {
	if u == Hex {
		return fmt.Sprintf("0x%X", n)
	}
	return humanize.IBytes(n)
}
