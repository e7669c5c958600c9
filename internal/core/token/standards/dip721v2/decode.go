package dip721v2

import (
	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

var nullaryMethods = map[string]types.Operation{
	"dip721_metadata":     types.OpMetadata,
	"dip721_name":         types.OpName,
	"dip721_symbol":       types.OpSymbol,
	"dip721_logo":         types.OpLogo,
	"dip721_total_supply": types.OpTotalSupply,
}

// DecodeCall 解码 DIP-721 v2 方法调用
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	if encoding != types.EncodingCandid {
		return nil, nil
	}
	if op, ok := nullaryMethods[method]; ok {
		return types.NewCall(op), nil
	}

	switch method {
	case "dip721_balance_of", "dip721_owner_token_metadata":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		owner, err := candid.AsIdentity(values[0])
		if err != nil {
			return nil, err
		}
		if method == "dip721_balance_of" {
			return types.NewCall(types.OpBalanceOf, owner.String()), nil
		}
		return types.NewCall(types.OpTokensOf, owner.String()), nil

	case "dip721_token_metadata", "dip721_owner_of":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		tokenID, err := candid.AsNat(values[0])
		if err != nil {
			return nil, err
		}
		if method == "dip721_token_metadata" {
			return types.NewCall(types.OpTokenMetadata, tokenID), nil
		}
		return types.NewCall(types.OpOwnerOf, tokenID), nil

	case "dip721_transfer":
		values, err := common.CandidArgs(raw, 2)
		if err != nil {
			return nil, err
		}
		to, err := candid.AsIdentity(values[0])
		if err != nil {
			return nil, err
		}
		tokenID, err := candid.AsNat(values[1])
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTransferToken, types.TransferTokenArgs{To: to.String(), TokenID: tokenID}), nil
	}
	return nil, nil
}
