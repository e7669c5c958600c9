// Package tokentest 适配器测试用的内存传输
package tokentest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/pkg/types"
)

// ErrMethodNotFound 未注册的方法
var ErrMethodNotFound = errors.New("method not found")

// Handler 处理一次调用，arg 为 Candid 编码的参数
type Handler func(arg []byte) ([]byte, error)

// Call 记录的一次调用
type Call struct {
	Canister types.Identity
	Method   string
	Update   bool
	Arg      []byte
}

// Transport 按方法名分派的假传输，并发安全
type Transport struct {
	mu      sync.Mutex
	queries map[string]Handler
	updates map[string]Handler
	calls   []Call
}

// NewTransport 创建假传输
func NewTransport() *Transport {
	return &Transport{
		queries: make(map[string]Handler),
		updates: make(map[string]Handler),
	}
}

// OnQuery 注册只读方法
func (t *Transport) OnQuery(method string, h Handler) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queries[method] = h
	return t
}

// OnUpdate 注册更新方法
func (t *Transport) OnUpdate(method string, h Handler) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updates[method] = h
	return t
}

// ReplyQuery 只读方法返回固定值
func (t *Transport) ReplyQuery(method string, reply ...candid.Arg) *Transport {
	return t.OnQuery(method, Reply(reply...))
}

// ReplyUpdate 更新方法返回固定值
func (t *Transport) ReplyUpdate(method string, reply ...candid.Arg) *Transport {
	return t.OnUpdate(method, Reply(reply...))
}

// FailQuery 只读方法返回错误
func (t *Transport) FailQuery(method string, err error) *Transport {
	return t.OnQuery(method, func([]byte) ([]byte, error) { return nil, err })
}

// Reply 固定回复
func Reply(reply ...candid.Arg) Handler {
	data := candid.MustEncode(reply...)
	return func([]byte) ([]byte, error) { return data, nil }
}

// Query 实现 token.Transport
func (t *Transport) Query(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	return t.dispatch(canister, method, arg, false)
}

// Update 实现 token.Transport
func (t *Transport) Update(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	return t.dispatch(canister, method, arg, true)
}

func (t *Transport) dispatch(canister types.Identity, method string, arg []byte, update bool) ([]byte, error) {
	t.mu.Lock()
	t.calls = append(t.calls, Call{Canister: canister, Method: method, Update: update, Arg: arg})
	handlers := t.queries
	if update {
		handlers = t.updates
	}
	h, ok := handlers[method]
	t.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", method, ErrMethodNotFound)
	}
	return h(arg)
}

// Calls 已发生的调用
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// LastArgs 解码某方法最近一次调用的参数
func (t *Transport) LastArgs(method string) ([]any, error) {
	calls := t.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return candid.Decode(calls[i].Arg)
		}
	}
	return nil, fmt.Errorf("%s: %w", method, ErrMethodNotFound)
}

// SignedTransport 带调用方身份的假传输
type SignedTransport struct {
	*Transport
	sender types.Identity
}

// As 以 sender 身份发起调用
func (t *Transport) As(sender types.Identity) *SignedTransport {
	return &SignedTransport{Transport: t, sender: sender}
}

// Sender 实现 token.SenderProvider
func (t *SignedTransport) Sender() types.Identity {
	return t.sender
}
