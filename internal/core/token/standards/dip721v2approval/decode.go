package dip721v2approval

import (
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/codec/cbor"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

// DecodeCall 解码 dip721_transfer_from 与 dip721_set_approval_for_all
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	if method != "dip721_transfer_from" && method != "dip721_set_approval_for_all" {
		return nil, nil
	}
	switch encoding {
	case types.EncodingCandid:
		return decodeCandid(method, raw)
	case types.EncodingCBOR:
		return decodeCBOR(method, raw)
	}
	return nil, nil
}

func decodeCandid(method string, raw []byte) (*types.CallDescription, error) {
	if method == "dip721_transfer_from" {
		values, err := common.CandidArgs(raw, 3)
		if err != nil {
			return nil, err
		}
		from, err := candid.AsIdentity(values[0])
		if err != nil {
			return nil, err
		}
		to, err := candid.AsIdentity(values[1])
		if err != nil {
			return nil, err
		}
		tokenID, err := candid.AsNat(values[2])
		if err != nil {
			return nil, err
		}
		return transferFrom(from, to, tokenID), nil
	}

	values, err := common.CandidArgs(raw, 2)
	if err != nil {
		return nil, err
	}
	spender, err := candid.AsIdentity(values[0])
	if err != nil {
		return nil, err
	}
	approved, err := candid.AsBool(values[1])
	if err != nil {
		return nil, err
	}
	return setApproval(spender, approved), nil
}

func decodeCBOR(method string, raw []byte) (*types.CallDescription, error) {
	args, err := cbor.DecodeArgs(raw)
	if err != nil {
		return nil, err
	}

	if method == "dip721_transfer_from" {
		var from, to []byte
		var tokenID big.Int
		if err := decodeAll(args, &from, &to, &tokenID); err != nil {
			return nil, err
		}
		fromID, err := types.IdentityFromBytes(from)
		if err != nil {
			return nil, err
		}
		toID, err := types.IdentityFromBytes(to)
		if err != nil {
			return nil, err
		}
		return transferFrom(fromID, toID, &tokenID), nil
	}

	var spender []byte
	var approved bool
	if err := decodeAll(args, &spender, &approved); err != nil {
		return nil, err
	}
	spenderID, err := types.IdentityFromBytes(spender)
	if err != nil {
		return nil, err
	}
	return setApproval(spenderID, approved), nil
}

func decodeAll(args []cbor.RawMessage, targets ...any) error {
	for n, target := range targets {
		if err := cbor.DecodeArg(args, n, target); err != nil {
			return err
		}
	}
	return nil
}

func transferFrom(from, to types.Identity, tokenID *big.Int) *types.CallDescription {
	return types.NewCall(types.OpTransferTokenFrom, types.TransferTokenFromArgs{
		From:    from.String(),
		To:      to.String(),
		TokenID: tokenID,
	})
}

func setApproval(spender types.Identity, approved bool) *types.CallDescription {
	op := types.OpRevokeCollectionApproval
	if approved {
		op = types.OpApproveCollection
	}
	return types.NewCall(op, types.CollectionApproval{Spender: spender.String()})
}
