// Package icrc10 ICRC-10 标准自描述
//
// ICRC-10 只提供 icrc10_supported_standards，本身不带任何代币操作；
// 它的作用是让 ICRC-7 等不自带描述方法的标准能被发现。
package icrc10

import (
	"context"

	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "icrc10"

// Adapter ICRC-10 适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardICRC10} }

// Probe icrc10_supported_standards
func (a *Adapter) Probe(ctx context.Context, contract types.Identity, transport token.Transport) ([]types.StandardDescriptor, error) {
	v, err := common.NewCaller(types.StandardICRC10, contract, transport).QueryValue(ctx, "icrc10_supported_standards")
	if err != nil {
		return nil, err
	}
	return common.SupportedStandardsFrom(v)
}

// Bind 绑定合约，实例没有任何能力
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return common.NewBase(types.StandardICRC10, contract, transport, nil, accepted), nil
}

var (
	_ token.Adapter = (*Adapter)(nil)
	_ token.Prober  = (*Adapter)(nil)
)
