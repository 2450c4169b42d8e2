//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dusk-indust/archparse/internal/batch"
	"github.com/dusk-indust/archparse/internal/engine"
	"github.com/dusk-indust/archparse/internal/rpc"
	"github.com/dusk-indust/archparse/internal/service"
	"github.com/dusk-indust/archparse/internal/syntax"
	"github.com/dusk-indust/archparse/internal/walk"
)

func fixtureRoot() string {
	return filepath.Join("..", "..", "testdata", "fixtures")
}

// startStack serves the full parser stack over h2c and returns a client.
func startStack(t *testing.T) *rpc.Client {
	t.Helper()
	log := zaptest.NewLogger(t)
	eng := engine.New(nil, engine.Options{})
	svc := service.New(eng, batch.New(eng, batch.Options{Workers: 3}, log), log)

	path, handler := rpc.NewParserServiceHandler(rpc.NewParserHandler(svc), log)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(rpc.H2C(mux))
	t.Cleanup(srv.Close)
	return rpc.NewClient(rpc.NewH2CClient(), srv.URL)
}

func fixtureRequests(t *testing.T) []syntax.Request {
	t.Helper()
	w, err := walk.New(nil, walk.Options{}, nil)
	require.NoError(t, err)
	reqs, err := w.Collect(context.Background(), fixtureRoot())
	require.NoError(t, err)
	require.NotEmpty(t, reqs)
	return reqs
}

// wireJSON encodes resp as it travels over the wire, without the timing,
// which differs between runs.
func wireJSON(t *testing.T, resp syntax.Response) string {
	t.Helper()
	if resp.Metrics != nil {
		m := *resp.Metrics
		m.ParseTimeMs = 0
		resp.Metrics = &m
	}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(data)
}

// TestPipeline_BatchMatchesDirectParse streams every fixture through the RPC
// batch and checks each response against an in-process parse of the same
// request.
func TestPipeline_BatchMatchesDirectParse(t *testing.T) {
	c := startStack(t)
	reqs := fixtureRequests(t)

	var (
		mu  sync.Mutex
		got = make(map[string]syntax.Response)
	)
	err := c.ParseBatch(context.Background(), batch.SliceSource(reqs), func(resp syntax.Response) error {
		mu.Lock()
		defer mu.Unlock()
		got[resp.FileID] = resp
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, len(reqs))

	eng := engine.New(nil, engine.Options{})
	for _, req := range reqs {
		want := eng.Parse(context.Background(), req)
		assert.JSONEq(t, wireJSON(t, want), wireJSON(t, got[req.FileID]), req.FileID)
	}
}

// TestPipeline_UnaryMatchesBatch checks that a unary ParseFile over the wire
// returns what the batch returned for the same file.
func TestPipeline_UnaryMatchesBatch(t *testing.T) {
	c := startStack(t)
	reqs := fixtureRequests(t)

	var batched []syntax.Response
	require.NoError(t, c.ParseBatch(context.Background(), batch.SliceSource(reqs[:1]), func(resp syntax.Response) error {
		batched = append(batched, resp)
		return nil
	}))
	require.Len(t, batched, 1)

	single, err := c.ParseFile(context.Background(), reqs[0])
	require.NoError(t, err)
	assert.JSONEq(t, wireJSON(t, batched[0]), wireJSON(t, single))
}
