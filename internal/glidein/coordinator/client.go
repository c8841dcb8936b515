package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultHttpRetries = 3
	DefaultTimeout     = 60 * time.Second
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MakeRetryingClient returns an http client retrying connection errors and 5xx responses
// with exponential backoff.
func MakeRetryingClient(timeout time.Duration, logger *log.Entry) *http.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = DefaultHttpRetries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 10 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = leveledLogger{logger}
	return client.StandardClient()
}

type leveledLogger struct {
	entry *log.Entry
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.withFields(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.withFields(keysAndValues).Info(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.withFields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.withFields(keysAndValues).Warn(msg)
}

func (l leveledLogger) withFields(keysAndValues []interface{}) *log.Entry {
	fields := make(log.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

// Client talks JSON-RPC 2.0 to the glidein coordinator.
type Client struct {
	address string
	http    HttpClient
	nextId  int64
}

func NewClient(address string, httpClient HttpClient) *Client {
	return &Client{address: address, http: httpClient}
}

type request struct {
	JsonRpc string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	Id      int64       `json:"id"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *RpcError       `json:"error"`
	Id     int64           `json:"id"`
}

type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call invokes method with params and decodes the result into result, which may be nil.
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	body, err := json.Marshal(request{
		JsonRpc: "2.0",
		Method:  method,
		Params:  params,
		Id:      atomic.AddInt64(&c.nextId, 1),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "calling %s on %s", method, c.address)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("calling %s on %s: %s %s", method, c.address, resp.Status, bytes.TrimSpace(msg))
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return errors.Wrapf(err, "decoding %s response", method)
	}
	if decoded.Error != nil {
		return errors.WithMessage(decoded.Error, method)
	}
	if result == nil || len(decoded.Result) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(decoded.Result, result), "decoding %s result", method)
}
