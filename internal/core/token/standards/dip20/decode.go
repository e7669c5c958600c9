package dip20

import (
	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

var nullaryMethods = map[string]types.Operation{
	"getMetadata": types.OpMetadata,
	"name":        types.OpName,
	"symbol":      types.OpSymbol,
	"logo":        types.OpLogo,
	"totalSupply": types.OpTotalSupply,
	"decimals":    types.OpDecimals,
}

// DecodeCall 解码 DIP-20 方法调用
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	if encoding != types.EncodingCandid {
		return nil, nil
	}
	if op, ok := nullaryMethods[method]; ok {
		return types.NewCall(op), nil
	}

	switch method {
	case "balanceOf":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		owner, err := candid.AsIdentity(values[0])
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpBalanceOf, owner.String()), nil

	case "transfer":
		values, err := common.CandidArgs(raw, 2)
		if err != nil {
			return nil, err
		}
		to, err := candid.AsIdentity(values[0])
		if err != nil {
			return nil, err
		}
		amount, err := candid.AsNat(values[1])
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTransfer, types.TransferArgs{To: to.String(), Amount: amount}), nil
	}
	return nil, nil
}
