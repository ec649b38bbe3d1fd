package workflow

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/pkg/conceptev"
)

type NewProjectCommand struct {
	*base.Command

	client      base.ClientFlags
	flagAccount string
	flagHPC     string
	flagTitle   string
	flagGoal    string
	flagFormat  string
}

func (c *NewProjectCommand) Synopsis() string {
	return "Create a project with an empty concept"
}

func (c *NewProjectCommand) Help() string {
	return `Usage: conceptev new-project -account <id> -title <title> [options]

  This command creates an OCM project and design, then an empty ConceptEV
  concept in the design's first instance, and prints the concept.

  Steps that succeeded before a failure are not undone.` +
		c.Flags().Help()
}

func (c *NewProjectCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("new-project", flag.ContinueOnError))
	c.client.Register(f)

	f.StringVar(
		&c.flagAccount, "account", "",
		"(Required) Account id.",
	)
	f.StringVar(
		&c.flagHPC, "hpc", "",
		"HPC id. Defaults to the account's default HPC.",
	)
	f.StringVar(
		&c.flagTitle, "title", "",
		"(Required) Project title.",
	)
	f.StringVar(
		&c.flagGoal, "goal", conceptev.DefaultProjectGoal,
		"Project goal.",
	)
	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format (json or yaml).",
	)

	return f
}

func (c *NewProjectCommand) Run(args []string) int {
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
	if c.flagTitle == "" {
		ui.Error("title flag is required")
		return 1
	}

	ctx := context.Background()
	env, err := c.Setup(ctx, &c.client)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	projects, err := c.OCMClient(env.Config)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	hpcID := c.flagHPC
	if hpcID == "" {
		hpcID, err = projects.DefaultHPC(ctx, env.Token, c.flagAccount)
		if err != nil {
			ui.Error(err.Error())
			return 1
		}
	}

	session, err := c.Session(env, &c.client)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	defer session.Close()

	concept, err := conceptev.CreateNewProject(ctx, session, projects,
		c.flagAccount, hpcID, c.flagTitle, c.flagGoal)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	if err := c.Print(concept, c.flagFormat); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
