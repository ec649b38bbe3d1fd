package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	client base.ClientFlags
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a resource"
}

func (c *DeleteCommand) Help() string {
	return `Usage: conceptev delete [options] <resource> <id>

  This command deletes a resource by id.` +
		c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("delete", flag.ContinueOnError))
	c.client.Register(f)
	return f
}

func (c *DeleteCommand) Run(args []string) int {
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

	if err := session.Delete(ctx, route, f.Arg(1)); err != nil {
		ui.Error(err.Error())
		return 1
	}

	c.Log.Info("deleted resource", "route", route, "id", f.Arg(1))
	return 0
}
