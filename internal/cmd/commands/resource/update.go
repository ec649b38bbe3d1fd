package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/pkg/conceptev"
)

type UpdateCommand struct {
	*base.Command

	client      base.ClientFlags
	flagFile    string
	flagReplace bool
	flagFormat  string
}

func (c *UpdateCommand) Synopsis() string {
	return "Update a resource"
}

func (c *UpdateCommand) Help() string {
	return `Usage: conceptev update [options] <resource> <id>

  This command applies the payload file (-f) to a resource as a JSON merge
  patch: fields in the file are set, fields set to null are removed and all
  others are kept. With -replace the payload replaces the resource.` +
		c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update", flag.ContinueOnError))
	c.client.Register(f)

	f.StringVar(
		&c.flagFile, "f", "",
		"(Required) Payload file (.json, .yaml or .yml).",
	)
	f.BoolVar(
		&c.flagReplace, "replace", false,
		"Replace the resource instead of merging into it.",
	)
	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format (json or yaml).",
	)

	return f
}

func (c *UpdateCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 2 {
		ui.Error("expected a resource and an id")
		return 1
	}
	if c.flagFile == "" {
		ui.Error("f flag is required")
		return 1
	}

	route, err := base.ResolveRoute(f.Arg(0))
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	id := f.Arg(1)

	payload, err := c.ReadPayload(c.flagFile)
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
	if c.flagReplace {
		resp, err = session.Update(ctx, route, id, payload)
	} else {
		resp, err = session.Patch(ctx, route, id, payload)
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
