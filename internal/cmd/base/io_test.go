package base

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansys/conceptev-go/pkg/conceptev"
)

func newTestCommand() (*Command, *cli.MockUi) {
	ui := cli.NewMockUi()
	c := NewCommand(hclog.NewNullLogger(), ui)
	c.Fs = afero.NewMemMapFs()
	return c, ui
}

func TestResolveRoute(t *testing.T) {
	tests := []struct {
		input   string
		want    conceptev.Route
		wantErr bool
	}{
		{input: "configurations", want: conceptev.RouteConfigurations},
		{input: "drive-cycles", want: conceptev.RouteDriveCycles},
		{input: "DriveCycles", want: conceptev.RouteDriveCycles},
		{input: "/requirements", want: conceptev.RouteRequirements},
		{input: "components:calculate-loss-map", want: conceptev.RouteComponentsCalculateLossMap},
		{input: "utilities:data_format_version", want: conceptev.RouteDataFormatVersion},
		{input: "vehicles", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveRoute(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, conceptev.ErrUnknownRoute)
				assert.Contains(t, err.Error(), "drive-cycles")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadPayload(t *testing.T) {
	c, _ := newTestCommand()
	require.NoError(t, afero.WriteFile(c.Fs, "aero.yaml", []byte(`
name: New Aero Config
drag_coefficient: 0.3
config_type: aero
tags:
  - low-drag
`), 0o644))
	require.NoError(t, afero.WriteFile(c.Fs, "aero.json", []byte(`{"name": "New Aero Config"}`), 0o644))
	require.NoError(t, afero.WriteFile(c.Fs, "broken.json", []byte(`{"name":`), 0o644))

	got, err := c.ReadPayload("aero.yaml")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "New Aero Config",
		"drag_coefficient": 0.3,
		"config_type": "aero",
		"tags": ["low-drag"]
	}`, string(got))

	got, err = c.ReadPayload("aero.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "New Aero Config"}`, string(got))

	_, err = c.ReadPayload("broken.json")
	assert.Error(t, err)

	_, err = c.ReadPayload("missing.yaml")
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	t.Run("JSON body", func(t *testing.T) {
		c, ui := newTestCommand()
		require.NoError(t, c.Print([]byte(`{"b":1,"a":[true]}`), "json"))
		assert.Equal(t, "{\n  \"a\": [\n    true\n  ],\n  \"b\": 1\n}\n", ui.OutputWriter.String())
	})

	t.Run("YAML", func(t *testing.T) {
		c, ui := newTestCommand()
		require.NoError(t, c.Print([]byte(`{"name":"aero"}`), "yaml"))
		assert.Equal(t, "name: aero\n", ui.OutputWriter.String())
	})

	t.Run("non-JSON body", func(t *testing.T) {
		c, ui := newTestCommand()
		require.NoError(t, c.Print([]byte("hello"), "json"))
		assert.Equal(t, "hello\n", ui.OutputWriter.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		c, _ := newTestCommand()
		assert.Error(t, c.Print(map[string]string{}, "xml"))
	})
}

func TestPrintMap(t *testing.T) {
	c, ui := newTestCommand()
	c.PrintMap(map[string]string{"Research": "acc-2", "Engineering": "acc-1"})
	assert.Equal(t, "Engineering: acc-1\nResearch: acc-2\n", ui.OutputWriter.String())
}
