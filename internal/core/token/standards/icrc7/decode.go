package icrc7

import (
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

var nullaryMethods = map[string]types.Operation{
	"icrc7_collection_metadata": types.OpMetadata,
	"icrc7_name":                types.OpName,
	"icrc7_symbol":              types.OpSymbol,
	"icrc7_logo":                types.OpLogo,
	"icrc7_total_supply":        types.OpTotalSupply,
	"icrc7_max_memo_size":       types.OpMaxMemoSize,
	"icrc7_supply_cap":          types.OpSupplyCap,
}

// DecodeCall 解码 ICRC-7 方法调用；批量方法映射为批量操作
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	if encoding != types.EncodingCandid {
		return nil, nil
	}
	if op, ok := nullaryMethods[method]; ok {
		return types.NewCall(op), nil
	}

	switch method {
	case "icrc7_balance_of":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		items, err := candid.AsVec(values[0])
		if err != nil {
			return nil, err
		}
		accounts := make([]string, 0, len(items))
		for _, item := range items {
			account, err := common.AccountText(item)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, account)
		}
		return types.NewCall(types.OpBatchBalanceOf, accounts), nil

	case "icrc7_token_metadata", "icrc7_owner_of":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		ids, err := natList(values[0])
		if err != nil {
			return nil, err
		}
		op := types.OpBatchTokenMetadata
		if method == "icrc7_owner_of" {
			op = types.OpBatchOwnerOf
		}
		return types.NewCall(op, ids), nil

	case "icrc7_tokens":
		values, err := common.CandidArgs(raw, 2)
		if err != nil {
			return nil, err
		}
		prev, err := optNat(values[0])
		if err != nil {
			return nil, err
		}
		take, err := optNat(values[1])
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTokens, prev, take), nil

	case "icrc7_tokens_of":
		values, err := common.CandidArgs(raw, 3)
		if err != nil {
			return nil, err
		}
		account, err := common.AccountText(values[0])
		if err != nil {
			return nil, err
		}
		prev, err := optNat(values[1])
		if err != nil {
			return nil, err
		}
		take, err := optNat(values[2])
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTokensOf, account, prev, take), nil

	case "icrc7_transfer":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		items, err := candid.AsVec(values[0])
		if err != nil {
			return nil, err
		}
		batch := make([]types.TransferTokenArgs, 0, len(items))
		for n, item := range items {
			f := common.ReadFields(item)
			args := types.TransferTokenArgs{
				TokenID:        f.Nat("token_id"),
				To:             f.Account("to"),
				FromSubaccount: f.OptSubaccount("from_subaccount"),
				Memo:           f.OptBlob("memo"),
				CreatedAtTime:  f.OptUint64("created_at_time"),
			}
			if err := f.Err(); err != nil {
				return nil, fmt.Errorf("transfer[%d]: %w", n, err)
			}
			batch = append(batch, args)
		}
		return types.NewCall(types.OpBatchTransferToken, batch), nil
	}
	return nil, nil
}

func optNat(v any) (*big.Int, error) {
	o, err := candid.AsOpt(v)
	if err != nil || !o.Some {
		return nil, err
	}
	return candid.AsNat(o.Value)
}
