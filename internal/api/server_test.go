package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestServer_ShutdownBeforeStart(t *testing.T) {
	s := NewServer("0", &fakeService{}, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	// the server must not come up once shutdown has been requested
	assert.ErrorIs(t, s.Start(), http.ErrServerClosed)
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := NewServer("0", &fakeService{}, zaptest.NewLogger(t))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Eventually(t, func() bool {
		return s.Shutdown(ctx) == nil
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
