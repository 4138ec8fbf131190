// internal/vault/vault_test.go
//
// GetKV against a minimal KV-v2 HTTP stand-in.

package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kvBody = `{
  "request_id": "1",
  "lease_id": "",
  "renewable": false,
  "lease_duration": 0,
  "data": {
    "data": {"mysql-password": "hunter2", "port": 3306},
    "metadata": {
      "created_time": "2024-03-01T12:00:00.000000000Z",
      "custom_metadata": null,
      "deletion_time": "",
      "destroyed": false,
      "version": 1
    }
  }
}`

func newServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/v1/secret/data/guacamole" || r.Header.Get("X-Vault-Token") != "root" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(kvBody))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGetKV(t *testing.T) {
	srv, hits := newServer(t)
	cli, err := New(Options{Addr: srv.URL, Token: "root"})
	require.NoError(t, err)

	v, err := cli.GetKV(context.Background(), "secret/guacamole", "mysql-password", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)

	// cached
	_, err = cli.GetKV(context.Background(), "secret/guacamole", "mysql-password", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestNew_EnvironmentFallback(t *testing.T) {
	srv, _ := newServer(t)
	t.Setenv("VAULT_ADDR", srv.URL)
	t.Setenv("VAULT_TOKEN", "root")

	cli, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, srv.URL, cli.Address())

	v, err := cli.GetKV(context.Background(), "secret/guacamole", "mysql-password", 0)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)
}

func TestGetKV_Errors(t *testing.T) {
	srv, _ := newServer(t)
	cli, err := New(Options{Addr: srv.URL, Token: "root"})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = cli.GetKV(ctx, "secret/guacamole", "missing", 0)
	assert.ErrorContains(t, err, `key "missing" not found`)

	_, err = cli.GetKV(ctx, "secret/guacamole", "port", 0)
	assert.ErrorContains(t, err, "is not a string")

	_, err = cli.GetKV(ctx, "secret", "k", 0)
	assert.ErrorContains(t, err, "no path below the mount")

	_, err = cli.GetKV(ctx, "", "k", 0)
	assert.Error(t, err)
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("/secret/apps/guacamole/")
	assert.Equal(t, "secret", m)
	assert.Equal(t, "apps/guacamole", r)
}
