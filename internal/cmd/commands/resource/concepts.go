package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
)

type ConceptsCommand struct {
	*base.Command

	client base.ClientFlags
}

func (c *ConceptsCommand) Synopsis() string {
	return "List concepts"
}

func (c *ConceptsCommand) Help() string {
	return `Usage: conceptev concepts [options]

  This command lists the concepts visible to the current user as
  "name: id".` +
		c.Flags().Help()
}

func (c *ConceptsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("concepts", flag.ContinueOnError))
	c.client.Register(f)
	return f
}

func (c *ConceptsCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
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

	ids, err := session.ConceptIDs(ctx)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	c.PrintMap(ids)
	return 0
}
