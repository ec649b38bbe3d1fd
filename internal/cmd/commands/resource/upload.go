package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
)

type UploadCommand struct {
	*base.Command

	client     base.ClientFlags
	flagKind   string
	flagFormat string
}

func (c *UploadCommand) Synopsis() string {
	return "Upload a component file"
}

func (c *UploadCommand) Help() string {
	return `Usage: conceptev upload -kind <file_kind> [options] <file>

  This command uploads a component data file, such as a motor lab file, and
  prints the server's description of it.` +
		c.Flags().Help()
}

func (c *UploadCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("upload", flag.ContinueOnError))
	c.client.Register(f)

	f.StringVar(
		&c.flagKind, "kind", "",
		"(Required) Component file type, e.g. motor_lab_file.",
	)
	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format (json or yaml).",
	)

	return f
}

func (c *UploadCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		ui.Error("expected exactly one file")
		return 1
	}
	if c.flagKind == "" {
		ui.Error("kind flag is required")
		return 1
	}

	ctx := context.Background()
	env, err := c.Setup(ctx, &c.client)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	session, err := c.Session(env, &c.client)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	defer session.Close()

	resp, err := session.UploadComponentFile(ctx, f.Arg(0), c.flagKind)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	if err := c.Print(resp.Body, c.flagFormat); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
