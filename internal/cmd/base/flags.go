package base

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const helpWidth = 78

// FlagSet is a flag.FlagSet that can render its own help.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned rather than printed.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help returns the "Options:" section of a command's help text.
func (f *FlagSet) Help() string {
	var out bytes.Buffer

	fmt.Fprint(&out, "\n\nOptions:\n\n")
	f.VisitAll(func(fl *flag.Flag) {
		printFlagDetail(&out, fl)
	})

	return strings.TrimRight(out.String(), "\n")
}

func printFlagDetail(w io.Writer, f *flag.Flag) {
	example, usage := flag.UnquoteUsage(f)
	if example != "" {
		fmt.Fprintf(w, "  -%s=<%s>\n", f.Name, example)
	} else {
		fmt.Fprintf(w, "  -%s\n", f.Name)
	}

	if f.DefValue != "" && f.DefValue != "false" {
		usage = fmt.Sprintf("%s The default is %s.", usage, f.DefValue)
	}

	wrapped := wordwrap.WrapString(usage, helpWidth-5)
	for _, line := range strings.Split(wrapped, "\n") {
		fmt.Fprintf(w, "     %s\n", line)
	}
	fmt.Fprintln(w)
}
