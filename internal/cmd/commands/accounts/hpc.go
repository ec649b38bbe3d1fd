package accounts

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
)

type HPCCommand struct {
	*base.Command

	client      base.ClientFlags
	flagAccount string
}

func (c *HPCCommand) Synopsis() string {
	return "Print the default HPC of an account"
}

func (c *HPCCommand) Help() string {
	return `Usage: conceptev hpc -account <id> [options]

  This command prints the id of the default HPC (compute allocation) of an
  OCM account.` +
		c.Flags().Help()
}

func (c *HPCCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("hpc", flag.ContinueOnError))
	c.client.Register(f)

	f.StringVar(
		&c.flagAccount, "account", "",
		"(Required) Account id.",
	)

	return f
}

func (c *HPCCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagAccount == "" {
		ui.Error("account flag is required")
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

	hpcID, err := client.DefaultHPC(ctx, env.Token, c.flagAccount)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	ui.Output(hpcID)
	return 0
}
