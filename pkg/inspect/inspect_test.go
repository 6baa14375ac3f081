package inspect_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripple-dev/ripple/pkg/inspect"
	"github.com/ripple-dev/ripple/pkg/ripple"
)

// busyRuntime returns a runtime that has done some work, so counters are
// nonzero.
func busyRuntime(t *testing.T) *ripple.Runtime {
	t.Helper()
	rt := ripple.New()
	state := ripple.ObjectOf(rt, map[string]any{"n": 0})
	ripple.Observe(rt, state, false)
	ripple.NewWatcher(rt, state, "n", func(newVal, oldVal any) {},
		ripple.WatchOptions{User: true})
	state.Set("n", 1)
	rt.Tick()
	return rt
}

func TestHealthz(t *testing.T) {
	srv := inspect.NewServer(busyRuntime(t), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatsSnapshot(t *testing.T) {
	srv := inspect.NewServer(busyRuntime(t), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var stats ripple.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, uint64(1), stats.Flushes)
	assert.Equal(t, uint64(1), stats.WatcherRuns)
	assert.GreaterOrEqual(t, stats.Notifies, uint64(1))
	assert.Zero(t, stats.CircularAborts)
}

func TestMetricsScrape(t *testing.T) {
	srv := inspect.NewServer(busyRuntime(t), &inspect.Config{Namespace: "testns"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "testns_flushes_total 1")
	assert.Contains(t, text, "testns_watcher_runs_total 1")
	assert.Contains(t, text, "testns_notifies_total")
	assert.Contains(t, text, "testns_circular_aborts_total 0")
}

func TestLiveStream(t *testing.T) {
	srv := inspect.NewServer(busyRuntime(t), &inspect.Config{
		StreamInterval: 10 * time.Millisecond,
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// The first snapshot arrives without waiting for the interval.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var stats ripple.Stats
	require.NoError(t, conn.ReadJSON(&stats))
	assert.Equal(t, uint64(1), stats.Flushes)

	// And a second one on the ticker.
	require.NoError(t, conn.ReadJSON(&stats))
}
