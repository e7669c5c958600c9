// Package common 各标准适配器共用的调用、账户与元数据转换
package common

import (
	"context"
	"fmt"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Caller 绑定到一个合约的 Candid 调用器
type Caller struct {
	Standard  string
	Contract  types.Identity
	Transport token.Transport
}

// NewCaller 创建调用器
func NewCaller(standard string, contract types.Identity, transport token.Transport) Caller {
	return Caller{Standard: standard, Contract: contract, Transport: transport}
}

// Query 只读调用，返回解码后的全部返回值
func (c Caller) Query(ctx context.Context, method string, args ...candid.Arg) ([]any, error) {
	return c.call(ctx, false, method, args)
}

// Update 更新调用，返回解码后的全部返回值
func (c Caller) Update(ctx context.Context, method string, args ...candid.Arg) ([]any, error) {
	return c.call(ctx, true, method, args)
}

// QueryValue 只读调用，返回第一个返回值
func (c Caller) QueryValue(ctx context.Context, method string, args ...candid.Arg) (any, error) {
	values, err := c.Query(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return c.first(method, values)
}

// UpdateValue 更新调用，返回第一个返回值
func (c Caller) UpdateValue(ctx context.Context, method string, args ...candid.Arg) (any, error) {
	values, err := c.Update(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return c.first(method, values)
}

// QueryResult 只读调用并展开 Ok/Err 结果
func (c Caller) QueryResult(ctx context.Context, method string, args ...candid.Arg) (any, error) {
	v, err := c.QueryValue(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return c.Unwrap(method, v)
}

// UpdateResult 更新调用并展开 Ok/Err 结果
func (c Caller) UpdateResult(ctx context.Context, method string, args ...candid.Arg) (any, error) {
	v, err := c.UpdateValue(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return c.Unwrap(method, v)
}

// Unwrap 展开 variant { Ok; Err }（标签大小写均可）
// Err 分支原样放入 ContractRejectedError.Payload
func (c Caller) Unwrap(method string, v any) (any, error) {
	vr, err := candid.AsVariant(v)
	if err != nil {
		return nil, fmt.Errorf("%s.%s 返回值: %w", c.Standard, method, err)
	}
	switch {
	case vr.Is("Ok") || vr.Is("ok"):
		return vr.Value, nil
	case vr.Is("Err") || vr.Is("err"):
		return nil, &types.ContractRejectedError{Standard: c.Standard, Method: method, Payload: vr.Value}
	default:
		return nil, fmt.Errorf("%s.%s 返回了未知的结果标签 %d", c.Standard, method, vr.ID)
	}
}

func (c Caller) call(ctx context.Context, update bool, method string, args []candid.Arg) ([]any, error) {
	arg, err := candid.Encode(args...)
	if err != nil {
		return nil, fmt.Errorf("%w: 编码 %s 参数失败: %v", types.ErrInvalidInput, method, err)
	}

	var reply []byte
	if update {
		reply, err = c.Transport.Update(ctx, c.Contract, method, arg)
	} else {
		reply, err = c.Transport.Query(ctx, c.Contract, method, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Standard, method, err)
	}

	values, err := candid.Decode(reply)
	if err != nil {
		return nil, fmt.Errorf("解码 %s.%s 回复失败: %w", c.Standard, method, err)
	}
	return values, nil
}

func (c Caller) first(method string, values []any) (any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%s.%s 没有返回值", c.Standard, method)
	}
	return values[0], nil
}
