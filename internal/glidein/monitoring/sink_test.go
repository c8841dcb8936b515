package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glideinproject/glidein/internal/glidein/coordinator"
	"github.com/glideinproject/glidein/internal/glidein/domain"
)

func TestJsonRpcSink_Report(t *testing.T) {
	var received struct {
		Method string              `json:"method"`
		Params domain.CycleSummary `json:"params"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"jsonrpc": "2.0", "id": 1, "result": null}`))
	}))
	defer server.Close()
	sink := NewJsonRpcSink(coordinator.NewClient(server.URL, http.DefaultClient), log.NewEntry(log.StandardLogger()))

	sink.Report(context.Background(), domain.CycleSummary{Uuid: "user@host", JobsRunning: 4, JobsLaunched: 2})

	assert.Equal(t, "monitoring", received.Method)
	assert.Equal(t, domain.CycleSummary{Uuid: "user@host", JobsRunning: 4, JobsLaunched: 2}, received.Params)
}

func TestJsonRpcSink_RetriesThenGivesUp(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	sink := NewJsonRpcSink(coordinator.NewClient(server.URL, http.DefaultClient), log.NewEntry(log.StandardLogger()))
	sink.delay = time.Millisecond

	sink.Report(context.Background(), domain.CycleSummary{Uuid: "user@host"})

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestLogSink_Report(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := NewLogSink(log.NewEntry(logger))

	sink.Report(context.Background(), domain.CycleSummary{Uuid: "glidein@test", JobsRunning: 3, JobsLaunched: 2})

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "cycle complete", hook.LastEntry().Message)
	assert.Equal(t, 2, hook.LastEntry().Data["jobs_launched"])
}
