package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/crypto"
	"github.com/MKhiriev/go-blog-auth/internal/handler"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/service"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/internal/workers"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// net/http keep-alive connections of the default transport
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

type countingWorker struct {
	runs, stops atomic.Int32
}

func (w *countingWorker) Run(context.Context) { w.runs.Add(1) }
func (w *countingWorker) Stop()               { w.stops.Add(1) }

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func newTestHandlers(t *testing.T, addr string) *handler.Handlers {
	t.Helper()

	deps := service.Dependencies{
		Users:       store.NewMemoryUserRepository(utils.NewUUIDGenerator(), logger.Nop()),
		Sessions:    store.NewMemorySessionRepository(time.Hour, logger.Nop()),
		Hasher:      crypto.NewBcryptHasher(bcrypt.MinCost),
		Validator:   validators.NewUserValidator(),
		RootAdminID: "admin-1",
	}
	cfg := &config.StructuredConfig{Server: config.Server{HTTPAddress: addr, RequestTimeout: time.Second}}

	handlers, err := handler.NewHandlers(service.NewServices(deps, logger.Nop()), cfg, nil, logger.Nop())
	require.NoError(t, err)
	return handlers
}

func TestNewServer_NoHandlers(t *testing.T) {
	srv, err := NewServer(nil, nil, config.Server{HTTPAddress: "127.0.0.1:8080"}, logger.Nop())
	assert.Nil(t, srv)
	assert.ErrorIs(t, err, errNoServersAreCreated)

	srv, err = NewServer(newTestHandlers(t, "127.0.0.1:8080"), nil, config.Server{}, logger.Nop())
	assert.Nil(t, srv)
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	addr := freeAddress(t)
	worker := &countingWorker{}

	srv, err := NewServer(newTestHandlers(t, addr), workers.NewWorkers(worker), config.Server{HTTPAddress: addr}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.(*server).run(ctx) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	url := fmt.Sprintf("http://%s/api/auth/me", addr)

	require.Eventually(t, func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == `{"user":null}`
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, int32(1), worker.runs.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Equal(t, int32(1), worker.stops.Load())

	// a second Shutdown is a no-op
	srv.Shutdown()
	assert.Equal(t, int32(1), worker.stops.Load())
}

func TestRun_AddressInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	addr := l.Addr().String()
	worker := &countingWorker{}
	srv, err := NewServer(newTestHandlers(t, addr), workers.NewWorkers(worker), config.Server{HTTPAddress: addr}, logger.Nop())
	require.NoError(t, err)

	err = srv.(*server).run(context.Background())
	require.Error(t, err)
	assert.Zero(t, worker.runs.Load())
}

func TestRun_NoHTTPServer(t *testing.T) {
	s := &server{logger: logger.Nop()}
	assert.ErrorIs(t, s.run(context.Background()), errNoServersToRun)
}
