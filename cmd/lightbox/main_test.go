package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	registerer = prometheus.NewRegistry()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.env")}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func newPokedex(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pokedex/pikachu":
			fmt.Fprintf(w, `<a rel="lightbox" href="%s/img/25.png">art</a>`, srv.URL)
		case "/pokedex/missingno":
			fmt.Fprint(w, `<p>no images here</p>`)
		case "/pokedex/broken":
			fmt.Fprint(w, `<a rel="lightbox" href="http://127.0.0.1:0/img/0.png">art</a>`)
		case "/img/25.png":
			w.Write([]byte("pika-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCommand(t *testing.T) {
	srv := newPokedex(t)
	dataPath := filepath.Join(t.TempDir(), "images")
	t.Setenv("HOME_URL", srv.URL)
	t.Setenv("DATA_PATH", dataPath)
	t.Setenv("LOG_LEVEL", "error")

	stdout, stderr, err := runCLI(t, "fetch", "pokedex/pikachu", "pokedex/missingno")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "saved\tpokedex/pikachu\t"+filepath.Join(dataPath, "25.png"))
	assert.Contains(t, stdout, "none\tpokedex/missingno\treference_not_found")

	got, err := os.ReadFile(filepath.Join(dataPath, "25.png"))
	require.NoError(t, err)
	assert.Equal(t, "pika-bytes", string(got))
}

func TestFetchCommand_DownloadFailureExitsNonZero(t *testing.T) {
	srv := newPokedex(t)
	dataPath := t.TempDir()
	t.Setenv("HOME_URL", srv.URL)
	t.Setenv("DATA_PATH", dataPath)
	t.Setenv("LOG_LEVEL", "error")

	stdout, stderr, err := runCLI(t, "fetch", "pokedex/broken", "pokedex/pikachu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 links failed")
	assert.Contains(t, stderr, "error\tpokedex/broken\t")
	// the batch carried on past the failure
	assert.Contains(t, stdout, "saved\tpokedex/pikachu")
}

func TestFetchCommand_MissingConfig(t *testing.T) {
	t.Setenv("HOME_URL", "")
	t.Setenv("DATA_PATH", t.TempDir())

	_, _, err := runCLI(t, "fetch", "pokedex/pikachu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOME_URL")
}

func TestFetchCommand_RequiresLinks(t *testing.T) {
	_, _, err := runCLI(t, "fetch")
	assert.Error(t, err)
}
