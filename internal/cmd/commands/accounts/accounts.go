package accounts

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
)

type Command struct {
	*base.Command

	client base.ClientFlags
}

func (c *Command) Synopsis() string {
	return "List the accounts of the current user"
}

func (c *Command) Help() string {
	return `Usage: conceptev accounts [options]

  This command lists the OCM accounts of the current user as "name: id".` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("accounts", flag.ContinueOnError))
	c.client.Register(f)
	return f
}

func (c *Command) Run(args []string) int {
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

	client, err := c.OCMClient(env.Config)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	accounts, err := client.AccountIDs(ctx, env.Token)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	c.PrintMap(accounts)
	return 0
}
