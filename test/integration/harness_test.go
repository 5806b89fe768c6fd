//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apphttp "github.com/jsamuelsen/quotekeeper/internal/adapters/http"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotekeeper/internal/bootstrap"
	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
)

const configDir = "../../configs"

// remotePost is the wire shape of the remote quote server.
type remotePost struct {
	UserID int    `json:"userId,omitempty"`
	ID     int    `json:"id,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// fakeRemote is a JSONPlaceholder-style post collection.
type fakeRemote struct {
	*httptest.Server

	failing    atomic.Bool
	fetches    atomic.Int32
	fetchDelay atomic.Int64

	mu         sync.Mutex
	posts      []remotePost
	pushed     []remotePost
	requestIDs []string
}

func newFakeRemote(t *testing.T, posts ...remotePost) *fakeRemote {
	t.Helper()

	r := &fakeRemote{posts: posts}
	r.Server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.Close)

	return r
}

func (r *fakeRemote) serve(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/posts" {
		http.NotFound(w, req)
		return
	}

	r.mu.Lock()
	r.requestIDs = append(r.requestIDs, req.Header.Get(middleware.HeaderRequestID))
	r.mu.Unlock()

	if r.failing.Load() {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch req.Method {
	case http.MethodGet:
		r.fetches.Add(1)
		time.Sleep(time.Duration(r.fetchDelay.Load()))

		r.mu.Lock()
		defer r.mu.Unlock()

		_ = json.NewEncoder(w).Encode(r.posts)

	case http.MethodPost:
		var p remotePost
		if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		r.mu.Lock()
		r.pushed = append(r.pushed, p)
		p.ID = 100 + len(r.pushed)
		r.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (r *fakeRemote) setPosts(posts ...remotePost) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = posts
}

func (r *fakeRemote) pushedPosts() []remotePost {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]remotePost(nil), r.pushed...)
}

func (r *fakeRemote) seenRequestIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.requestIDs...)
}

// service is a running quotekeeper instance.
type service struct {
	baseURL    string
	components *bootstrap.Components
	client     *http.Client

	stopOnce sync.Once
	stop     func() error
}

// testConfig loads the test profile and points it at remote with a sqlite
// file at dbPath.
func testConfig(t *testing.T, remote *fakeRemote, dbPath string) *config.Config {
	t.Helper()

	cfg, err := config.LoadFrom(configDir, "test")
	require.NoError(t, err)

	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Store.Driver = "sqlite"
	cfg.Store.Path = dbPath
	cfg.Services.Remote.BaseURL = remote.URL
	cfg.Sync.Enabled = true
	cfg.Sync.PushOnAdd = true
	cfg.Client.Timeout = 2 * time.Second
	cfg.Client.Retry.MaxAttempts = 2
	cfg.Client.Retry.InitialInterval = 10 * time.Millisecond
	cfg.Client.Retry.MaxInterval = 50 * time.Millisecond
	cfg.Client.CircuitBreaker.MaxFailures = 100

	return cfg
}

// startService runs the full HTTP service in-process. It is stopped at the
// end of the test unless stopped earlier.
func startService(t *testing.T, cfg *config.Config) *service {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	ctx, cancel := context.WithCancel(context.Background())

	components, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		cancel()
		require.NoError(t, err)
	}

	server := apphttp.New(&cfg.Server, logger)

	routerCfg := apphttp.NewDefaultRouterConfig(logger, &cfg.App,
		handlers.NewHealthHandler(components.Health, components.Quotes, handlers.NewBuildInfo("it", "", "")))
	routerCfg.QuoteHandler = handlers.NewQuoteHandler(components.Quotes)
	routerCfg.SyncHandler = handlers.NewSyncHandler(components.Sync, components.Board)
	apphttp.SetupRouter(server.Engine(), routerCfg)

	done := make(chan error, 1)

	go func() { done <- server.Run(ctx) }()

	s := &service{
		components: components,
		client:     &http.Client{Timeout: 5 * time.Second},
	}

	select {
	case addr := <-server.Ready():
		s.baseURL = "http://" + addr.String()
	case err := <-done:
		cancel()
		_ = components.Close(context.Background())
		t.Fatalf("server exited before listening: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start listening")
	}

	s.stop = func() error {
		cancel()

		runErr := <-done
		closeErr := components.Close(context.Background())

		if runErr != nil {
			return runErr
		}

		return closeErr
	}

	t.Cleanup(func() { _ = s.Stop() })

	return s
}

// Stop shuts the service down: server first, then a final save.
func (s *service) Stop() error {
	var err error

	s.stopOnce.Do(func() { err = s.stop() })

	return err
}

// request sends body as JSON and returns the status and raw response.
func (s *service) request(t *testing.T, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()

	var reader io.Reader = http.NoBody

	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, s.baseURL+path, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

// getJSON fetches path, requires 200 and decodes the body into out.
func (s *service) getJSON(t *testing.T, path string, out any) {
	t.Helper()

	status, raw := s.request(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	require.NoError(t, json.Unmarshal(raw, out))
}

func tempDB(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "quotes.db")
}
