package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/cbor"
	"github.com/weisyn/tokens/pkg/types"
)

var ledger = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")

func gateway(t *testing.T, handler func(env envelope) queryResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/status" {
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/canister/"+ledger.String()+"/query", r.URL.Path)
		assert.Equal(t, contentTypeCBOR, r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var env envelope
		require.NoError(t, cbor.Unmarshal(body, &env))

		out, err := cbor.Marshal(handler(env))
		require.NoError(t, err)
		w.Header().Set("Content-Type", contentTypeCBOR)
		_, _ = w.Write(out)
	}))
}

func TestHTTPClient_QueryReplied(t *testing.T) {
	srv := gateway(t, func(env envelope) queryResponse {
		assert.Equal(t, "query", env.Content.RequestType)
		assert.Equal(t, "icrc1_name", env.Content.MethodName)
		assert.Equal(t, ledger.Bytes(), env.Content.CanisterID)
		assert.Equal(t, []byte{0x04}, env.Content.Sender)
		assert.Len(t, env.Content.Nonce, 16)
		assert.NotZero(t, env.Content.IngressExpiry)
		return queryResponse{Status: "replied", Reply: &queryReply{Arg: append([]byte("DIDL"), env.Content.Arg...)}}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", time.Second)
	defer c.Close()

	reply, err := c.Query(context.Background(), ledger, "icrc1_name", []byte{0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{'D', 'I', 'D', 'L', 0x00, 0x00}, reply)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestHTTPClient_QueryRejected(t *testing.T) {
	srv := gateway(t, func(env envelope) queryResponse {
		return queryResponse{Status: "rejected", RejectCode: 3, RejectMessage: "method not found", ErrorCode: "IC0302"}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	_, err := c.Query(context.Background(), ledger, "nope", nil)

	var reject *RejectError
	require.ErrorAs(t, err, &reject)
	assert.Equal(t, uint64(3), reject.Code)
	assert.Contains(t, reject.Error(), "method not found")
	assert.True(t, isPermanent(err))
}

func TestHTTPClient_UpdateRequiresSigner(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", time.Second)
	_, err := c.Update(context.Background(), ledger, "icrc1_transfer", nil)
	assert.ErrorIs(t, err, ErrUpdateRequiresSigner)
}

func TestHTTPClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	_, err := c.Query(context.Background(), ledger, "icrc1_name", nil)

	var status *HTTPStatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusBadGateway, status.StatusCode)
	assert.False(t, isPermanent(err))
}

func TestFallbackClient_SwitchesEndpoint(t *testing.T) {
	var badHits int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&badHits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	good := gateway(t, func(env envelope) queryResponse {
		return queryResponse{Status: "replied", Reply: &queryReply{Arg: []byte("ok")}}
	})
	defer good.Close()

	fc, err := NewFallbackClientFromURLs([]string{bad.URL, good.URL}, ClientConfig{
		Timeout:       time.Second,
		RetryAttempts: 3,
		RetryBackoff:  time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer fc.Close()

	reply, err := fc.Query(context.Background(), ledger, "icrc1_name", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), reply)
	assert.Equal(t, int32(1), atomic.LoadInt32(&badHits))
}

func TestFallbackClient_RejectNotRetried(t *testing.T) {
	var hits int32
	srv := gateway(t, func(env envelope) queryResponse {
		atomic.AddInt32(&hits, 1)
		return queryResponse{Status: "rejected", RejectCode: 5, RejectMessage: "trapped"}
	})
	defer srv.Close()

	fc, err := NewFallbackClientFromURLs([]string{srv.URL, srv.URL}, ClientConfig{RetryBackoff: time.Millisecond}, nil)
	require.NoError(t, err)
	defer fc.Close()

	_, err = fc.Query(context.Background(), ledger, "icrc1_name", nil)
	var reject *RejectError
	require.ErrorAs(t, err, &reject)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFallbackClient_NoEndpoints(t *testing.T) {
	_, err := NewFallbackClient(ClientConfig{}, nil)
	assert.ErrorIs(t, err, ErrNoEndpoints)

	_, err = NewFallbackClient(ClientConfig{Endpoints: []EndpointConfig{{Name: "empty"}}}, nil)
	assert.Error(t, err)
}

type flakyTransport struct {
	failures int32
	calls    int32
	err      error
}

func (f *flakyTransport) Query(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failures {
		return nil, f.err
	}
	return []byte("reply"), nil
}

func (f *flakyTransport) Update(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	return nil, ErrUpdateRequiresSigner
}

func TestProbeClient_Retries(t *testing.T) {
	base := &flakyTransport{failures: 1, err: errors.New("connection reset")}
	p := NewProbeClient(base, DefaultProbeRetries, time.Millisecond)

	reply, err := p.Query(context.Background(), ledger, "icrc1_supported_standards", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("reply"), reply)
	assert.Equal(t, int32(2), base.calls)

	base = &flakyTransport{failures: 5, err: errors.New("connection reset")}
	p = NewProbeClient(base, 1, time.Millisecond)
	_, err = p.Query(context.Background(), ledger, "icrc1_supported_standards", nil)
	assert.Error(t, err)
	assert.Equal(t, int32(2), base.calls)
}

func TestProbeClient_RejectNotRetried(t *testing.T) {
	base := &flakyTransport{failures: 5, err: &RejectError{Code: 3, Message: "no method"}}
	p := NewProbeClient(base, 3, time.Millisecond)
	_, err := p.Query(context.Background(), ledger, "dip721_supported_interfaces", nil)
	assert.Error(t, err)
	assert.Equal(t, int32(1), base.calls)
}
