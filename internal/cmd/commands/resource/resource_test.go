package resource

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/internal/config"
)

// setup points the CLI at a mock ConceptEV server and returns a base
// command writing to a mock UI over an in-memory file system.
func setup(t *testing.T, handler http.HandlerFunc) (*base.Command, *cli.MockUi) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv(base.EnvConfig, "")
	t.Setenv(base.EnvToken, "value1")
	t.Setenv(config.EnvConceptEVURL, server.URL)
	t.Setenv(config.EnvOCMURL, "")

	ui := cli.NewMockUi()
	b := base.NewCommand(hclog.NewNullLogger(), ui)
	b.Fs = afero.NewMemMapFs()
	return b, ui
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetCommand(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/drive_cycles/dc-1", r.URL.Path)
		assert.Equal(t, "instance-1", r.URL.Query().Get("design_instance_id"))
		assert.Equal(t, "aero", r.URL.Query().Get("config_type"))
		assert.Equal(t, "value1", r.Header.Get("Authorization"))

		writeJSON(t, w, http.StatusOK, map[string]string{"id": "dc-1", "name": "WLTP"})
	})

	cmd := &GetCommand{Command: b}
	code := cmd.Run([]string{"-design-instance", "instance-1", "-param", "config_type=aero", "drive-cycles", "dc-1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.JSONEq(t, `{"id": "dc-1", "name": "WLTP"}`, ui.OutputWriter.String())
}

func TestGetCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{name: "no resource", args: nil, errorMsg: "expected a resource"},
		{name: "unknown resource", args: []string{"vehicles"}, errorMsg: "unknown route"},
		{name: "bad param", args: []string{"-param", "oops", "configurations"}, errorMsg: "key=value"},
		{name: "server error", args: []string{"configurations", "missing"}, errorMsg: "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})

			code := (&GetCommand{Command: b}).Run(tt.args)
			assert.Equal(t, 1, code)
			assert.Contains(t, ui.ErrorWriter.String(), tt.errorMsg)
		})
	}
}

func TestCreateCommand_FromYAML(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/configurations", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "New Aero Config", "drag_coefficient": 0.3, "config_type": "aero"}`, string(body))

		writeJSON(t, w, http.StatusCreated, map[string]string{"id": "cfg-1"})
	})
	require.NoError(t, afero.WriteFile(b.Fs, "aero.yaml", []byte(
		"name: New Aero Config\ndrag_coefficient: 0.3\nconfig_type: aero\n"), 0o644))

	code := (&CreateCommand{Command: b}).Run([]string{"-f", "aero.yaml", "-format", "yaml", "configurations"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "id: cfg-1\n", ui.OutputWriter.String())
}

func TestCreateCommand_Upload(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drive_cycles:from_file", r.URL.Path)
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "wltp.csv", header.Filename)

		writeJSON(t, w, http.StatusOK, map[string]string{"id": "dc-1"})
	})
	require.NoError(t, afero.WriteFile(b.Fs, "wltp.csv", []byte("t,v\n0,0\n"), 0o644))

	code := (&CreateCommand{Command: b}).Run([]string{"-upload", "wltp.csv", "drive-cycles"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
}

func TestCreateCommand_NeedsOneSource(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Fail(t, "no request expected")
	})

	code := (&CreateCommand{Command: b}).Run([]string{"configurations"})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "exactly one of -f or -upload")
}

func TestUpdateCommand_MergePatch(t *testing.T) {
	var written map[string]any
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/configurations/cfg-1", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, map[string]any{"id": "cfg-1", "name": "Aero", "drag_coefficient": 0.3})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			writeJSON(t, w, http.StatusOK, written)
		}
	})
	require.NoError(t, afero.WriteFile(b.Fs, "patch.json", []byte(`{"drag_coefficient": 0.25}`), 0o644))

	code := (&UpdateCommand{Command: b}).Run([]string{"-f", "patch.json", "configurations", "cfg-1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, map[string]any{"id": "cfg-1", "name": "Aero", "drag_coefficient": 0.25}, written)
}

func TestUpdateCommand_Replace(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "Replaced"}`, string(body))
		writeJSON(t, w, http.StatusOK, map[string]string{"name": "Replaced"})
	})
	require.NoError(t, afero.WriteFile(b.Fs, "full.json", []byte(`{"name": "Replaced"}`), 0o644))

	code := (&UpdateCommand{Command: b}).Run([]string{"-replace", "-f", "full.json", "configurations", "cfg-1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
}

func TestDeleteCommand(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/configurations/cfg-1" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	code := (&DeleteCommand{Command: b}).Run([]string{"configurations", "cfg-1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Empty(t, ui.OutputWriter.String(), "stdout carries results only")

	code = (&DeleteCommand{Command: b}).Run([]string{"configurations", "cfg-2"})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "failed to delete from /configurations with id:cfg-2")
}

func TestUploadCommand(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/components:upload", r.URL.Path)
		assert.Equal(t, "motor_lab_file", r.URL.Query().Get("component_file_type"))
		writeJSON(t, w, http.StatusOK, map[string]string{"file": "read"})
	})
	require.NoError(t, afero.WriteFile(b.Fs, "e9.lab", []byte("Simple Data"), 0o644))

	code := (&UploadCommand{Command: b}).Run([]string{"-kind", "motor_lab_file", "e9.lab"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.JSONEq(t, `{"file": "read"}`, ui.OutputWriter.String())

	code = (&UploadCommand{Command: b}).Run([]string{"e9.lab"})
	assert.Equal(t, 1, code)
}

func TestConceptsCommand(t *testing.T) {
	b, ui := setup(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]string{
			{"id": "c-2", "name": "Branch 2"},
			{"id": "c-1", "name": "Branch 1"},
		})
	})

	code := (&ConceptsCommand{Command: b}).Run(nil)
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "Branch 1: c-1\nBranch 2: c-2\n", ui.OutputWriter.String())
}
