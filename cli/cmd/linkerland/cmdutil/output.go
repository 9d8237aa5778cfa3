package cmdutil

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Oneof is a string flag restricted to a fixed set of values.
type Oneof struct {
	Value     string
	Allowed   []string
	Flag      string
	FlagShort string
	Desc      string // usage desc
	TypeDesc  string // type description, defaults to the name of the flag
}

func (o *Oneof) AddFlag(cmd *cobra.Command) {
	cmd.Flags().AddFlag(
		&pflag.Flag{
			Name:      o.Flag,
			Shorthand: o.FlagShort,
			Usage:     o.Usage(),
			Value:     o,
			DefValue:  o.String(),
		})
	_ = cmd.RegisterFlagCompletionFunc(o.Flag, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return o.Allowed, cobra.ShellCompDirectiveNoFileComp
	})
}

// FallbackTo sets the value to v unless the flag was given on the command line.
// An empty v leaves the value unchanged.
func (o *Oneof) FallbackTo(cmd *cobra.Command, v string) {
	if v == "" || cmd.Flags().Changed(o.Flag) {
		return
	}
	if slices.Contains(o.Allowed, v) {
		o.Value = v
	}
}

func (o *Oneof) String() string {
	return o.Value
}

func (o *Oneof) Type() string {
	if o.TypeDesc != "" {
		return o.TypeDesc
	}
	return o.Flag
}

func (o *Oneof) Set(v string) error {
	if slices.Contains(o.Allowed, v) {
		o.Value = v
		return nil
	}

	var b strings.Builder
	b.WriteString("must be one of ")
	o.oneOf(&b)
	return errors.New(b.String())
}

func (o *Oneof) Usage() string {
	var b strings.Builder
	b.WriteString(o.Desc + ". One of (")
	o.oneOf(&b)
	b.WriteString(").")
	return b.String()
}

// Alternatives lists the alternatives in the format "a|b|c".
func (o *Oneof) Alternatives() string {
	return strings.Join(o.Allowed, "|")
}

func (o *Oneof) oneOf(b *strings.Builder) {
	n := len(o.Allowed)
	for i, s := range o.Allowed {
		if i > 0 {
			switch {
			case n == 2:
				b.WriteString(" or ")
			case i == n-1:
				b.WriteString(", or ")
			default:
				b.WriteString(", ")
			}
		}

		b.WriteString(strconv.Quote(s))
	}
}
