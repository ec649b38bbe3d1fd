package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/internal/cmd/commands/accounts"
	"github.com/ansys/conceptev-go/internal/cmd/commands/login"
	"github.com/ansys/conceptev-go/internal/cmd/commands/resource"
	"github.com/ansys/conceptev-go/internal/cmd/commands/workflow"
	"github.com/ansys/conceptev-go/internal/version"
)

// Commands returns the CLI command factories.
func Commands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := base.NewCommand(log, ui)

	return map[string]cli.CommandFactory{
		"login": func() (cli.Command, error) {
			return &login.Command{Command: b}, nil
		},
		"accounts": func() (cli.Command, error) {
			return &accounts.Command{Command: b}, nil
		},
		"hpc": func() (cli.Command, error) {
			return &accounts.HPCCommand{Command: b}, nil
		},
		"get": func() (cli.Command, error) {
			return &resource.GetCommand{Command: b}, nil
		},
		"create": func() (cli.Command, error) {
			return &resource.CreateCommand{Command: b}, nil
		},
		"update": func() (cli.Command, error) {
			return &resource.UpdateCommand{Command: b}, nil
		},
		"delete": func() (cli.Command, error) {
			return &resource.DeleteCommand{Command: b}, nil
		},
		"upload": func() (cli.Command, error) {
			return &resource.UploadCommand{Command: b}, nil
		},
		"concepts": func() (cli.Command, error) {
			return &resource.ConceptsCommand{Command: b}, nil
		},
		"new-project": func() (cli.Command, error) {
			return &workflow.NewProjectCommand{Command: b}, nil
		},
		"submit-job": func() (cli.Command, error) {
			return &workflow.SubmitJobCommand{Command: b}, nil
		},
		"results": func() (cli.Command, error) {
			return &workflow.ResultsCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &versionCommand{Command: b}, nil
		},
	}
}

type versionCommand struct {
	*base.Command
}

func (c *versionCommand) Synopsis() string {
	return "Print the version"
}

func (c *versionCommand) Help() string {
	return "Usage: conceptev version"
}

func (c *versionCommand) Run(args []string) int {
	c.UI.Output("conceptev " + version.Version)
	return 0
}
