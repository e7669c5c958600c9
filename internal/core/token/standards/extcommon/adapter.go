// Package extcommon EXT @ext/common 同质化代币适配器
package extcommon

import (
	"context"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/internal/core/token/standards/ext"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "extcommon"

// DefaultMaxMemoSize 合约不公开备注上限，取 32 字节
const DefaultMaxMemoSize = 32

// Capabilities @ext/common 能力表
var Capabilities = types.CapabilityTable{
	types.StandardEXTCommon: {
		types.OpMetadata, types.OpName, types.OpSymbol, types.OpLogo, types.OpTotalSupply,
		types.OpMaxMemoSize, types.OpBalanceOf,
	},
}

// BalanceRequestType balance 的参数 record { token : text; user : User }
var BalanceRequestType = candid.RecordOf(
	candid.F("token", candid.Text),
	candid.F("user", ext.UserType),
)

// Adapter @ext/common 适配器
type Adapter struct {
	directory ext.Directory
}

// Option 适配器选项
type Option func(*Adapter)

// WithDirectory 设置链下集合目录
func WithDirectory(directory ext.Directory) Option {
	return func(a *Adapter) {
		a.directory = directory
	}
}

// New 创建适配器
func New(opts ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardEXTCommon} }

// Probe extensions 中的每个扩展名都作为支持的标准上报
func (a *Adapter) Probe(ctx context.Context, contract types.Identity, transport token.Transport) ([]types.StandardDescriptor, error) {
	names, err := ext.Extensions(ctx, common.NewCaller(types.StandardEXTCommon, contract, transport))
	if err != nil {
		return nil, err
	}
	out := make([]types.StandardDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, common.Descriptor(name, ext.URL))
	}
	return out, nil
}

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	base := common.NewBase(types.StandardEXTCommon, contract, transport, Capabilities, accepted)
	return &Instance{CollectionReader: ext.NewCollectionReader(base, a.directory)}, nil
}

// Instance 绑定到一个 @ext/common 合约
type Instance struct {
	ext.CollectionReader
}

// MaxMemoSize 固定 32
func (i *Instance) MaxMemoSize(ctx context.Context) (int, error) {
	return DefaultMaxMemoSize, nil
}

// BalanceOf balance({token = 合约; user = 账户哈希})
func (i *Instance) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	hash, err := ext.AccountHash(account)
	if err != nil {
		return nil, err
	}
	req := candid.Fields(
		"token", i.Contract.String(),
		"user", candid.Tag("address", hash),
	)
	v, err := i.QueryResult(ctx, "balance", candid.A(BalanceRequestType, req))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

var (
	_ token.Adapter = (*Adapter)(nil)
	_ token.Prober  = (*Adapter)(nil)

	_ token.MetadataReader    = (*Instance)(nil)
	_ token.NameReader        = (*Instance)(nil)
	_ token.SymbolReader      = (*Instance)(nil)
	_ token.LogoReader        = (*Instance)(nil)
	_ token.TotalSupplyReader = (*Instance)(nil)
	_ token.MaxMemoSizeReader = (*Instance)(nil)
	_ token.BalanceReader     = (*Instance)(nil)
)
