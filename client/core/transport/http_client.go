package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weisyn/tokens/internal/core/codec/cbor"
	"github.com/weisyn/tokens/pkg/types"
)

const (
	contentTypeCBOR      = "application/cbor"
	defaultTimeout       = 30 * time.Second
	defaultIngressExpiry = 4 * time.Minute
	maxResponseSize      = 4 << 20
)

// HTTPClient 通过 HTTP 网关发起匿名只读调用
//
// 请求体为带 55799 自描述标签的 CBOR 信封，sender 固定为匿名身份；
// 更新调用需要签名，直接返回 ErrUpdateRequiresSigner。
type HTTPClient struct {
	endpoint      string
	httpClient    *http.Client
	ingressExpiry time.Duration
	now           func() time.Time
}

// NewHTTPClient 创建HTTP网关客户端
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		ingressExpiry: defaultIngressExpiry,
		now:           time.Now,
	}
}

// WithIngressExpiry 设置请求过期时长
func (c *HTTPClient) WithIngressExpiry(d time.Duration) *HTTPClient {
	if d > 0 {
		c.ingressExpiry = d
	}
	return c
}

// requestContent 调用内容
type requestContent struct {
	RequestType   string `cbor:"request_type"`
	CanisterID    []byte `cbor:"canister_id"`
	MethodName    string `cbor:"method_name"`
	Arg           []byte `cbor:"arg"`
	Sender        []byte `cbor:"sender"`
	IngressExpiry uint64 `cbor:"ingress_expiry"`
	Nonce         []byte `cbor:"nonce,omitempty"`
}

// envelope 未签名信封
type envelope struct {
	Content requestContent `cbor:"content"`
}

// queryReply 只读调用回复
type queryReply struct {
	Arg []byte `cbor:"arg"`
}

// queryResponse 只读调用响应
type queryResponse struct {
	Status        string      `cbor:"status"`
	Reply         *queryReply `cbor:"reply,omitempty"`
	RejectCode    uint64      `cbor:"reject_code,omitempty"`
	RejectMessage string      `cbor:"reject_message,omitempty"`
	ErrorCode     string      `cbor:"error_code,omitempty"`
}

// Query 发起匿名只读调用
func (c *HTTPClient) Query(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	nonce := uuid.New()
	body, err := cbor.MarshalSelfDescribed(envelope{Content: requestContent{
		RequestType:   "query",
		CanisterID:    canister.Bytes(),
		MethodName:    method,
		Arg:           arg,
		Sender:        types.AnonymousIdentity.Bytes(),
		IngressExpiry: uint64(c.now().Add(c.ingressExpiry).UnixNano()),
		Nonce:         nonce[:],
	}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, "/api/v2/canister/"+canister.String()+"/query", body)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := cbor.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	switch resp.Status {
	case "replied":
		if resp.Reply == nil {
			return nil, fmt.Errorf("replied without reply body")
		}
		return resp.Reply.Arg, nil
	case "rejected":
		return nil, &RejectError{Code: resp.RejectCode, Message: resp.RejectMessage, ErrorCode: resp.ErrorCode}
	default:
		return nil, fmt.Errorf("unexpected query status %q", resp.Status)
	}
}

// Update 匿名传输不支持更新调用
func (c *HTTPClient) Update(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	return nil, fmt.Errorf("%s.%s: %w", canister, method, ErrUpdateRequiresSigner)
}

// Ping 访问网关状态接口
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/v2/status", nil)
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode/100 != 2 {
		return &HTTPStatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Close 释放空闲连接
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentTypeCBOR)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

var _ Client = (*HTTPClient)(nil)
