package login

import (
	"context"
	"flag"
	"fmt"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/pkg/auth"
)

type Command struct {
	*base.Command

	flagConfig      string
	flagLogLevel    string
	flagInteractive bool
	flagForce       bool
}

func (c *Command) Synopsis() string {
	return "Obtain an access token and print it"
}

func (c *Command) Help() string {
	return `Usage: conceptev login [options]

  This command obtains an access token and prints it to stdout, so it can be
  exported as CONCEPTEV_TOKEN.

  By default it logs in to OCM with CONCEPTEV_USERNAME and CONCEPTEV_PASSWORD
  (or the ocm block of the config file). With -interactive it opens a browser
  login against the configured auth authority and caches the token.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("login", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"["+base.EnvConfig+"] Path to an HCL config file.",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error).",
	)
	f.BoolVar(
		&c.flagInteractive, "interactive", false,
		"Log in through the browser instead of with a username and password.",
	)
	f.BoolVar(
		&c.flagForce, "force", false,
		"Discard any cached token before an interactive login.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(&base.ClientFlags{Config: c.flagConfig, LogLevel: c.flagLogLevel})
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	ctx := context.Background()
	var token string

	if c.flagInteractive {
		if c.flagForce {
			cache := auth.NewTokenCache(c.Fs, cfg.Auth.CachePath)
			if err := cache.Clear(); err != nil {
				ui.Error(err.Error())
				return 1
			}
		}
		token, err = c.BrowserToken(ctx, cfg)
	} else {
		if cfg.OCM.Username == "" || cfg.OCM.Password == "" {
			ui.Error("username and password are required (CONCEPTEV_USERNAME and CONCEPTEV_PASSWORD, or the ocm block)")
			return 1
		}
		token, err = c.PasswordToken(ctx, cfg)
	}
	if err != nil {
		ui.Error(fmt.Sprintf("error logging in: %v", err))
		return 1
	}

	ui.Output(token)
	return 0
}
