package workflow

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/pkg/conceptev"
)

// pollFlags are the flags that tune result polling.
type pollFlags struct {
	maxAttempts int
	interval    time.Duration
	noUnits     bool
}

func (p *pollFlags) register(f *base.FlagSet) {
	f.IntVar(
		&p.maxAttempts, "max-attempts", conceptev.DefaultPollAttempts,
		"Number of result requests before giving up.",
	)
	f.DurationVar(
		&p.interval, "interval", conceptev.DefaultPollInterval,
		"Pause after each result request.",
	)
	f.BoolVar(
		&p.noUnits, "no-units", false,
		"Return results without unit conversion.",
	)
}

func (p *pollFlags) options() []conceptev.PollOption {
	return []conceptev.PollOption{
		conceptev.WithMaxAttempts(p.maxAttempts),
		conceptev.WithInterval(p.interval),
		conceptev.WithCalculateUnits(!p.noUnits),
	}
}

type ResultsCommand struct {
	*base.Command

	client      base.ClientFlags
	poll        pollFlags
	flagJobInfo string
	flagFormat  string
}

func (c *ResultsCommand) Synopsis() string {
	return "Wait for the results of a started job"
}

func (c *ResultsCommand) Help() string {
	return `Usage: conceptev results -job-info <file> [options]

  This command polls for the results of a job started with
  "conceptev submit-job -out <file>" and prints them.` +
		c.Flags().Help()
}

func (c *ResultsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("results", flag.ContinueOnError))
	c.client.Register(f)
	c.poll.register(f)

	f.StringVar(
		&c.flagJobInfo, "job-info", "",
		"(Required) Job info file written by submit-job.",
	)
	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format (json or yaml).",
	)

	return f
}

func (c *ResultsCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagJobInfo == "" {
		ui.Error("job-info flag is required")
		return 1
	}

	jobInfo, err := c.ReadPayload(c.flagJobInfo)
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

	resp, err := session.PollResults(ctx, conceptev.JobInfo(jobInfo), c.poll.options()...)
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
