package workflow

import (
	"context"
	"flag"
	"fmt"

	"github.com/spf13/afero"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/pkg/conceptev"
)

type SubmitJobCommand struct {
	*base.Command

	client      base.ClientFlags
	poll        pollFlags
	flagConcept string
	flagAccount string
	flagHPC     string
	flagName    string
	flagOut     string
	flagWait    bool
	flagFormat  string
}

func (c *SubmitJobCommand) Synopsis() string {
	return "Create and start a job for a concept"
}

func (c *SubmitJobCommand) Help() string {
	return `Usage: conceptev submit-job -concept <design_instance_id> -account <id> [options]

  This command reads the concept of a design instance, creates a job for its
  requirements and starts it on the account's HPC. It prints the job info, or
  with -wait polls for the results and prints them instead.

  Save the job info with -out to fetch results later with "conceptev results".` +
		c.Flags().Help()
}

func (c *SubmitJobCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("submit-job", flag.ContinueOnError))
	c.client.Register(f)
	c.poll.register(f)

	f.StringVar(
		&c.flagConcept, "concept", "",
		"(Required) Design instance id of the concept.",
	)
	f.StringVar(
		&c.flagAccount, "account", "",
		"(Required) Account id.",
	)
	f.StringVar(
		&c.flagHPC, "hpc", "",
		"HPC id. Defaults to the account's default HPC.",
	)
	f.StringVar(
		&c.flagName, "name", "",
		"Job name. Defaults to a timestamped name.",
	)
	f.StringVar(
		&c.flagOut, "out", "",
		"Write the job info to this file.",
	)
	f.BoolVar(
		&c.flagWait, "wait", false,
		"Wait for the results and print them.",
	)
	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format (json or yaml).",
	)

	return f
}

func (c *SubmitJobCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagConcept == "" {
		ui.Error("concept flag is required")
		return 1
	}
	if c.flagAccount == "" {
		ui.Error("account flag is required")
		return 1
	}
	if c.client.DesignInstance == "" {
		c.client.DesignInstance = c.flagConcept
	}

	ctx := context.Background()
	env, err := c.Setup(ctx, &c.client)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	hpcID := c.flagHPC
	if hpcID == "" {
		client, err := c.OCMClient(env.Config)
		if err != nil {
			ui.Error(err.Error())
			return 1
		}
		hpcID, err = client.DefaultHPC(ctx, env.Token, c.flagAccount)
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

	concept, err := session.PopulatedConcept(ctx, c.flagConcept)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	jobInfo, err := conceptev.CreateSubmitJob(ctx, session, concept, c.flagAccount, hpcID, c.flagName)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	if c.flagOut != "" {
		if err := afero.WriteFile(c.Fs, c.flagOut, jobInfo, 0o644); err != nil {
			ui.Error(fmt.Sprintf("error writing job info: %v", err))
			return 1
		}
		c.Log.Info("job info written", "path", c.flagOut)
	}

	if !c.flagWait {
		if err := c.Print(jobInfo, c.flagFormat); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	resp, err := session.PollResults(ctx, jobInfo, c.poll.options()...)
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
