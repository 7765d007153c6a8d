package extension

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nbgrader-validate/internal/agent/agent"
	"nbgrader-validate/internal/api/v1/rest/handlers"
	"nbgrader-validate/internal/auth"
	busamqp "nbgrader-validate/internal/bus/amqp"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/processor/v1/processor"
	"nbgrader-validate/internal/processor/v1/processor/processortest"
	"nbgrader-validate/internal/s3/s3"
	"nbgrader-validate/internal/storage/v1/psql"
	"nbgrader-validate/internal/syncutils"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Notebook: config.Notebook{RootDir: "/srv/course"},
		Nbgrader: config.Nbgrader{Executable: "nbgrader", ValidateTimeout: 5 * time.Second},
		Jupyter: config.Jupyter{
			Executable:         "jupyter",
			CompetingExtension: "nbgrader:validate-assignment",
			LockTimeout:        5 * time.Second,
		},
		Auth: config.Auth{Token: testToken},
	}
}

func newTestExtension(t *testing.T, cfg *config.Config, executor processor.Executor) (*Extension, *syncutils.SyncUtils) {
	t.Helper()
	log := zerolog.Nop()
	su := syncutils.NewSyncUtils()
	t.Cleanup(su.Shutdown)

	s3svc, err := s3.NewService(cfg, &log)
	require.NoError(t, err)
	proc := processor.NewProcessorWithExecutor(cfg, &log, executor)
	a := agent.NewAgent(&log, cfg, proc, psql.NewStorage(cfg, &log, su), s3svc, busamqp.NewAMQP(cfg, &log, su), su)

	return NewExtension(&log, cfg, proc, handlers.NewEndpointHandlers(cfg, &log, a), auth.NewAuthenticator(cfg, &log), su), su
}

func newServer(t *testing.T, e *Extension, baseURL string) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	e.RegisterRoutes(r, baseURL)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func validate(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutePath(t *testing.T) {
	assert.Equal(t, "/jupyterlab-nbgrader-validate/validate", RoutePath("/"))
	assert.Equal(t, "/jupyterlab-nbgrader-validate/validate", RoutePath(""))
	assert.Equal(t, "/user/alice/jupyterlab-nbgrader-validate/validate", RoutePath("/user/alice/"))
	assert.Equal(t, "/hub/jupyterlab-nbgrader-validate/validate", RoutePath("hub"))
	assert.Equal(t, "/user/alice/jupyterlab-nbgrader-validate/doc", DocPath("/user/alice"))
}

func TestRegisteredRouteValidates(t *testing.T) {
	e, _ := newTestExtension(t, testConfig(), processortest.Printing("Ready to submit? ... YES"))
	srv := newServer(t, e, "/user/alice/")

	resp := validate(t, srv.URL+"/user/alice/jupyterlab-nbgrader-validate/validate", testToken, `{"name":"ps1.ipynb"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"output": "Ready to submit? ... YES"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRegisteredRouteOnlyAcceptsPost(t *testing.T) {
	fake := &processortest.Executor{}
	e, _ := newTestExtension(t, testConfig(), fake)
	srv := newServer(t, e, "/")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/jupyterlab-nbgrader-validate/validate?token="+testToken, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Empty(t, fake.Calls())
}

func TestUnauthenticatedRequestNeverSpawns(t *testing.T) {
	fake := &processortest.Executor{}
	e, _ := newTestExtension(t, testConfig(), fake)
	srv := newServer(t, e, "/")
	url := srv.URL + "/jupyterlab-nbgrader-validate/validate"

	resp := validate(t, url, "", `{"name":"ps1.ipynb"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = validate(t, url, "wrong-token", `{"name":"ps1.ipynb"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.Empty(t, fake.Calls())
}

func TestDefaultAuthConfigRejectsUnauthenticated(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.Auth{}
	fake := processortest.Printing("Success!")
	e, _ := newTestExtension(t, cfg, fake)
	srv := newServer(t, e, "/")
	url := srv.URL + "/jupyterlab-nbgrader-validate/validate"

	resp := validate(t, url, "", `{"name":"ps1.ipynb"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, fake.Calls())

	require.True(t, e.auth.Generated())
	resp = validate(t, url, e.auth.Token(), `{"name":"ps1.ipynb"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, fake.Calls(), 1)
}

func TestAuthDisabledAcceptsUnauthenticated(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.Auth{Disabled: true}
	fake := processortest.Printing("Success!")
	e, _ := newTestExtension(t, cfg, fake)
	srv := newServer(t, e, "/")

	resp := validate(t, srv.URL+"/jupyterlab-nbgrader-validate/validate", "", `{"name":"ps1.ipynb"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, fake.Calls(), 1)
}

func TestConcurrentRequestsGetTheirOwnOutput(t *testing.T) {
	fake := &processortest.Executor{Fn: func(_ context.Context, _ string, args []string, stdout, _ io.Writer) error {
		time.Sleep(5 * time.Millisecond)
		_, err := fmt.Fprintf(stdout, "validated %s\n", args[1])
		return err
	}}
	e, _ := newTestExtension(t, testConfig(), fake)
	srv := newServer(t, e, "/")
	url := srv.URL + "/jupyterlab-nbgrader-validate/validate"

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("ps%d.ipynb", i)
			resp := validate(t, url, testToken, fmt.Sprintf(`{"name":%q}`, name))
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var got struct {
				Output string `json:"output"`
			}
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, "validated /srv/course/"+name+"\n", got.Output)
		}(i)
	}
	wg.Wait()
	assert.Len(t, fake.Calls(), n)
}

func TestInitializeLocksCompetingExtension(t *testing.T) {
	fake := &processortest.Executor{}
	e, su := newTestExtension(t, testConfig(), fake)

	e.Initialize()
	su.Shutdown()

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "jupyter", calls[0].Executable)
	assert.Equal(t, []string{"labextension", "lock", "nbgrader:validate-assignment"}, calls[0].Args)
}

func TestInitializeSwallowsLockFailure(t *testing.T) {
	fake := &processortest.Executor{Fn: func(context.Context, string, []string, io.Writer, io.Writer) error {
		return errors.New("exit status 1")
	}}
	e, su := newTestExtension(t, testConfig(), fake)

	require.NotPanics(t, func() {
		e.Initialize()
		su.Shutdown()
	})
	assert.Len(t, fake.Calls(), 1)
}

func TestInitializeDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	fake := &processortest.Executor{Fn: func(context.Context, string, []string, io.Writer, io.Writer) error {
		<-release
		return nil
	}}
	e, _ := newTestExtension(t, testConfig(), fake)

	done := make(chan struct{})
	go func() {
		e.Initialize()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Initialize blocked on the lock command")
	}
	close(release)
}

func TestInitializeLockDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Jupyter.LockDisabled = true
	fake := &processortest.Executor{}
	e, su := newTestExtension(t, cfg, fake)

	e.Initialize()
	su.Shutdown()
	assert.Empty(t, fake.Calls())
}
