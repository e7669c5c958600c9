// Package icrc4 ICRC-4 批量转账适配器
package icrc4

import (
	"context"
	"fmt"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/internal/core/token/standards/icrc1"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "icrc4"

// Capabilities ICRC-4 能力表
var Capabilities = types.CapabilityTable{
	types.StandardICRC4: {types.OpBatchTransfer},
}

// BatchArgType vec TransferArg
var BatchArgType = candid.VecOf(icrc1.TransferArgType)

// Adapter ICRC-4 适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardICRC4} }

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return &Instance{Base: common.NewBase(types.StandardICRC4, contract, transport, Capabilities, accepted)}, nil
}

// Encodings 支持的调用编码
func (a *Adapter) Encodings() []types.Encoding {
	return []types.Encoding{types.EncodingCandid}
}

// DecodeCall 解码 icrc4_transfer_batch
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	if encoding != types.EncodingCandid || method != "icrc4_transfer_batch" {
		return nil, nil
	}
	values, err := common.CandidArgs(raw, 1)
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(values[0])
	if err != nil {
		return nil, err
	}
	batch := make([]types.TransferArgs, 0, len(items))
	for i, item := range items {
		args, err := icrc1.TransferArgsFrom(common.ReadFields(item))
		if err != nil {
			return nil, fmt.Errorf("transfer[%d]: %w", i, err)
		}
		batch = append(batch, args)
	}
	return types.NewCall(types.OpBatchTransfer, batch), nil
}

// Instance 绑定到一个 ICRC-4 账本
type Instance struct {
	common.Base
}

// BatchTransfer icrc4_transfer_batch
//
// 结果与输入一一对应：账本对某项返回 null 时该项 TxID 与 Err 均为空，
// 某项被拒绝时 Err 为 ContractRejectedError，不影响其他项。
func (i *Instance) BatchTransfer(ctx context.Context, batch []types.TransferArgs) ([]types.BatchResult, error) {
	arg := make([]any, 0, len(batch))
	for n, args := range batch {
		rec, err := icrc1.TransferArg(args)
		if err != nil {
			return nil, fmt.Errorf("transfer[%d]: %w", n, err)
		}
		arg = append(arg, rec)
	}

	v, err := i.UpdateValue(ctx, "icrc4_transfer_batch", candid.A(BatchArgType, arg))
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}

	out := make([]types.BatchResult, len(batch))
	for n := range out {
		if n >= len(items) {
			break
		}
		o, err := candid.AsOpt(items[n])
		if err != nil {
			return nil, fmt.Errorf("result[%d]: %w", n, err)
		}
		if !o.Some {
			continue
		}
		res, err := i.Unwrap("icrc4_transfer_batch", o.Value)
		if err != nil {
			out[n].Err = err
			continue
		}
		if out[n].TxID, err = candid.AsNat(res); err != nil {
			return nil, fmt.Errorf("result[%d]: %w", n, err)
		}
	}
	return out, nil
}

var (
	_ token.Adapter         = (*Adapter)(nil)
	_ token.CallDecoder     = (*Adapter)(nil)
	_ token.BatchTransferer = (*Instance)(nil)
)
