package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(req map[string]interface{}) (int, string)) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCall(t *testing.T) {
	var received map[string]interface{}
	server := newTestServer(t, func(req map[string]interface{}) (int, string) {
		received = req
		return http.StatusOK, `{"jsonrpc": "2.0", "result": {"answer": 42}, "id": 1}`
	})
	client := NewClient(server.URL, MakeRetryingClient(time.Second, log.NewEntry(log.StandardLogger())))

	var result struct{ Answer int }
	err := client.Call(context.Background(), "ask", map[string]string{"q": "everything"}, &result)
	require.NoError(t, err)

	assert.Equal(t, 42, result.Answer)
	assert.Equal(t, "2.0", received["jsonrpc"])
	assert.Equal(t, "ask", received["method"])
	assert.Equal(t, map[string]interface{}{"q": "everything"}, received["params"])
	assert.Equal(t, 1.0, received["id"])
}

func TestCall_OmitsNilParams(t *testing.T) {
	var received map[string]interface{}
	server := newTestServer(t, func(req map[string]interface{}) (int, string) {
		received = req
		return http.StatusOK, `{"jsonrpc": "2.0", "result": null, "id": 1}`
	})
	client := NewClient(server.URL, http.DefaultClient)

	require.NoError(t, client.Call(context.Background(), "ping", nil, nil))
	assert.NotContains(t, received, "params")
}

func TestCall_RpcError(t *testing.T) {
	server := newTestServer(t, func(req map[string]interface{}) (int, string) {
		return http.StatusOK, `{"jsonrpc": "2.0", "error": {"code": -32601, "message": "method not found"}, "id": 1}`
	})
	client := NewClient(server.URL, http.DefaultClient)

	err := client.Call(context.Background(), "nope", nil, nil)
	var rpcErr *RpcError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestCall_HttpError(t *testing.T) {
	server := newTestServer(t, func(req map[string]interface{}) (int, string) {
		return http.StatusBadGateway, "upstream down"
	})
	client := NewClient(server.URL, http.DefaultClient)

	err := client.Call(context.Background(), "get_state", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestCall_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := newTestServer(t, func(req map[string]interface{}) (int, string) {
		attempts++
		if attempts == 1 {
			return http.StatusServiceUnavailable, "try later"
		}
		return http.StatusOK, `{"jsonrpc": "2.0", "result": [1, 2], "id": 1}`
	})
	client := NewClient(server.URL, MakeRetryingClient(5*time.Second, log.NewEntry(log.StandardLogger())))

	var result []int
	require.NoError(t, client.Call(context.Background(), "get_state", nil, &result))
	assert.Equal(t, []int{1, 2}, result)
	assert.Equal(t, 2, attempts)
}
