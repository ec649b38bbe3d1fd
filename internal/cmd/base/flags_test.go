package base

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSet_Help(t *testing.T) {
	var name string
	var wait bool

	f := NewFlagSet(flag.NewFlagSet("test", flag.ContinueOnError))
	f.StringVar(&name, "name", "default-job", "Job `name` shown in the job list.")
	f.BoolVar(&wait, "wait", false, "Wait for results.")

	help := f.Help()
	assert.True(t, strings.HasPrefix(help, "\n\nOptions:\n\n"))
	assert.Contains(t, help, "  -name=<name>\n     Job name shown in the job list. The default is default-job.")
	assert.Contains(t, help, "  -wait\n     Wait for results.")
	assert.NotContains(t, help, "The default is false")
}

func TestFlagSet_ParseErrorIsReturned(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("test", flag.ContinueOnError))
	err := f.Parse([]string{"-unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}
