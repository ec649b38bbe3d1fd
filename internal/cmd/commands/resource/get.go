package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
)

type GetCommand struct {
	*base.Command

	client     base.ClientFlags
	params     paramFlag
	flagFormat string
}

func (c *GetCommand) Synopsis() string {
	return "Read a resource or list a collection"
}

func (c *GetCommand) Help() string {
	return `Usage: conceptev get [options] <resource> [id]

  This command reads one resource by id, or lists the whole collection when
  no id is given. Resources are named like "configurations" or
  "drive-cycles".` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))
	c.client.Register(f)
	c.params.register(f)

	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format (json or yaml).",
	)

	return f
}

func (c *GetCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	args = f.Args()
	if len(args) < 1 || len(args) > 2 {
		ui.Error("expected a resource and an optional id")
		return 1
	}

	route, err := base.ResolveRoute(args[0])
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	var id string
	if len(args) == 2 {
		id = args[1]
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

	resp, err := session.Read(ctx, route, id, c.params.values)
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
