package icrc1

import (
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

// 无参数方法 → 规范操作
var nullaryMethods = map[string]types.Operation{
	"icrc1_metadata":        types.OpMetadata,
	"icrc1_name":            types.OpName,
	"icrc1_symbol":          types.OpSymbol,
	"icrc1_total_supply":    types.OpTotalSupply,
	"icrc1_decimals":        types.OpDecimals,
	"icrc1_fee":             types.OpFee,
	"icrc1_minting_account": types.OpMintingAccount,
}

// DecodeCall 解码 ICRC-1 方法调用
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	if encoding != types.EncodingCandid {
		return nil, nil
	}
	if op, ok := nullaryMethods[method]; ok {
		return types.NewCall(op), nil
	}

	switch method {
	case "icrc1_balance_of":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		account, err := common.AccountText(values[0])
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpBalanceOf, account), nil

	case "icrc1_transfer":
		f, err := common.CandidRecordArg(raw)
		if err != nil {
			return nil, err
		}
		args, err := TransferArgsFrom(f)
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTransfer, args), nil
	}
	return nil, nil
}

// TransferArgsFrom TransferArg record → TransferArgs
func TransferArgsFrom(f *common.Fields) (types.TransferArgs, error) {
	args := types.TransferArgs{
		To:             f.Account("to"),
		Amount:         f.Nat("amount"),
		Fee:            f.OptNat("fee"),
		FromSubaccount: f.OptSubaccount("from_subaccount"),
		Memo:           f.OptBlob("memo"),
		CreatedAtTime:  f.OptUint64("created_at_time"),
	}
	return args, f.Err()
}
