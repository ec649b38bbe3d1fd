package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/pkg/conceptev"
)

type CreateCommand struct {
	*base.Command

	client     base.ClientFlags
	params     paramFlag
	flagFile   string
	flagUpload string
	flagFormat string
}

func (c *CreateCommand) Synopsis() string {
	return "Create a resource"
}

func (c *CreateCommand) Help() string {
	return `Usage: conceptev create [options] <resource>

  This command creates a resource from a JSON or YAML payload file (-f), or
  from a data file posted to the resource's from_file endpoint (-upload),
  e.g. a drive cycle CSV.` +
		c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create", flag.ContinueOnError))
	c.client.Register(f)
	c.params.register(f)

	f.StringVar(
		&c.flagFile, "f", "",
		"Payload file (.json, .yaml or .yml).",
	)
	f.StringVar(
		&c.flagUpload, "upload", "",
		"Data file to create the resource from.",
	)
	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format (json or yaml).",
	)

	return f
}

func (c *CreateCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		ui.Error("expected exactly one resource")
		return 1
	}
	if (c.flagFile == "") == (c.flagUpload == "") {
		ui.Error("exactly one of -f or -upload is required")
		return 1
	}

	route, err := base.ResolveRoute(f.Arg(0))
	if err != nil {
		ui.Error(err.Error())
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

	var resp *conceptev.Response
	if c.flagUpload != "" {
		resp, err = session.CreateFromFile(ctx, route, c.flagUpload, c.params.values)
	} else {
		payload, perr := c.ReadPayload(c.flagFile)
		if perr != nil {
			ui.Error(perr.Error())
			return 1
		}
		resp, err = session.Create(ctx, route, payload, c.params.values)
	}
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
