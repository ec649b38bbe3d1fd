package workflow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansys/conceptev-go/internal/cmd/base"
	"github.com/ansys/conceptev-go/internal/config"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// setup starts mock ConceptEV and OCM servers and returns a base command
// pointed at them.
func setup(t *testing.T, conceptEV, ocm http.Handler) (*base.Command, *cli.MockUi) {
	t.Helper()

	cev := httptest.NewServer(conceptEV)
	t.Cleanup(cev.Close)
	om := httptest.NewServer(ocm)
	t.Cleanup(om.Close)

	t.Setenv(base.EnvConfig, "")
	t.Setenv(base.EnvToken, "value1")
	t.Setenv(config.EnvConceptEVURL, cev.URL)
	t.Setenv(config.EnvOCMURL, om.URL)

	ui := cli.NewMockUi()
	b := base.NewCommand(hclog.NewNullLogger(), ui)
	b.Fs = afero.NewMemMapFs()
	return b, ui
}

func ocmHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/account/hpc/default", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"hpcId": "hpc-default"})
	})
	mux.HandleFunc("/project/create", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hpc-default", req["hpcId"])
		writeJSON(t, w, http.StatusOK, map[string]string{"projectId": "project-1"})
	})
	mux.HandleFunc("/product/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]string{{"productId": "product-1", "productName": "CONCEPTEV"}})
	})
	mux.HandleFunc("/design/create", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"designId":           "design-1",
			"designInstanceList": []map[string]string{{"designInstanceId": "instance-1"}},
		})
	})
	mux.HandleFunc("/user/details", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"userId": "user-1"})
	})
	return mux
}

// conceptEVHandler serves a concept, job creation and start, and results
// that become ready on the second poll.
func conceptEVHandler(t *testing.T, polls *int32) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/concepts/instance-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("populated"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id":                 "concept-1",
			"design_instance_id": "instance-1",
			"architecture_id":    "arch-1",
			"requirements_ids":   []string{"req-1"},
		})
	})
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		var input map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "nightly", input["job_name"])
		assert.Equal(t, "concept-1", input["concept_id"])
		writeJSON(t, w, http.StatusOK, []any{map[string]string{"job_id": "job-1"}, map[string]string{}})
	})
	mux.HandleFunc("/jobs:start", func(w http.ResponseWriter, r *http.Request) {
		var start map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&start))
		assert.Equal(t, "hpc-default", start["hpc_id"])
		writeJSON(t, w, http.StatusOK, map[string]string{"job_id": "job-1"})
	})
	mux.HandleFunc("/utilities:data_format_version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, 3)
	})
	mux.HandleFunc("/jobs:result", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(polls, 1) < 2 {
			writeJSON(t, w, http.StatusAccepted, map[string]string{"status": "running"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"range": 412.5})
	})
	return mux
}

func TestSubmitJobCommand(t *testing.T) {
	var polls int32
	b, ui := setup(t, conceptEVHandler(t, &polls), ocmHandler(t))

	code := (&SubmitJobCommand{Command: b}).Run([]string{
		"-concept", "instance-1",
		"-account", "acc-1",
		"-name", "nightly",
		"-out", "job.json",
	})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.NotContains(t, ui.OutputWriter.String(), "job.json")
	assert.JSONEq(t, `{"job_id": "job-1"}`, ui.OutputWriter.String())
	assert.Equal(t, int32(0), atomic.LoadInt32(&polls))

	saved, err := afero.ReadFile(b.Fs, "job.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id": "job-1"}`, string(saved))
}

func TestSubmitJobCommand_Wait(t *testing.T) {
	var polls int32
	b, ui := setup(t, conceptEVHandler(t, &polls), ocmHandler(t))

	code := (&SubmitJobCommand{Command: b}).Run([]string{
		"-concept", "instance-1",
		"-account", "acc-1",
		"-name", "nightly",
		"-wait",
		"-interval", "1ms",
	})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.JSONEq(t, `{"range": 412.5}`, ui.OutputWriter.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&polls))
}

func TestResultsCommand(t *testing.T) {
	var polls int32
	b, ui := setup(t, conceptEVHandler(t, &polls), ocmHandler(t))
	require.NoError(t, afero.WriteFile(b.Fs, "job.json", []byte(`{"job_id": "job-1"}`), 0o644))

	code := (&ResultsCommand{Command: b}).Run([]string{"-job-info", "job.json", "-interval", "1ms"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.JSONEq(t, `{"range": 412.5}`, ui.OutputWriter.String())
}

func TestResultsCommand_Exhausted(t *testing.T) {
	var polls int32
	b, ui := setup(t, conceptEVHandler(t, &polls), ocmHandler(t))
	require.NoError(t, afero.WriteFile(b.Fs, "job.json", []byte(`{"job_id": "job-1"}`), 0o644))

	start := time.Now()
	code := (&ResultsCommand{Command: b}).Run([]string{
		"-job-info", "job.json", "-max-attempts", "1", "-interval", "1ms",
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "too many requests")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewProjectCommand(t *testing.T) {
	conceptEV := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/concepts", r.URL.Path)
		var concept map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&concept))
		assert.Equal(t, "instance-1", concept["design_instance_id"])
		assert.Equal(t, "user-1", concept["user_id"])
		writeJSON(t, w, http.StatusCreated, map[string]string{"id": "concept-1"})
	})
	b, ui := setup(t, conceptEV, ocmHandler(t))

	code := (&NewProjectCommand{Command: b}).Run([]string{"-account", "acc-1", "-title", "Test Project"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.JSONEq(t, `{"id": "concept-1"}`, ui.OutputWriter.String())
}

func TestNewProjectCommand_RequiredFlags(t *testing.T) {
	b, ui := setup(t, http.NotFoundHandler(), http.NotFoundHandler())

	code := (&NewProjectCommand{Command: b}).Run([]string{"-title", "Test Project"})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "account flag is required")
}
