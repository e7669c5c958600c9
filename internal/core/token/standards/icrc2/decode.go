package icrc2

import (
	"math/big"

	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

// DecodeCall 解码 icrc2_transfer_from / icrc2_approve / icrc2_allowance
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	switch encoding {
	case types.EncodingCandid:
		return decodeCandid(method, raw)
	case types.EncodingCBOR:
		return decodeCBOR(method, raw)
	}
	return nil, nil
}

func decodeCandid(method string, raw []byte) (*types.CallDescription, error) {
	switch method {
	case "icrc2_transfer_from":
		f, err := common.CandidRecordArg(raw)
		if err != nil {
			return nil, err
		}
		args := types.TransferFromArgs{
			From:              f.Account("from"),
			To:                f.Account("to"),
			Amount:            f.Nat("amount"),
			Fee:               f.OptNat("fee"),
			SpenderSubaccount: f.OptSubaccount("spender_subaccount"),
			Memo:              f.OptBlob("memo"),
			CreatedAtTime:     f.OptUint64("created_at_time"),
		}
		if err := f.Err(); err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTransferFrom, args), nil

	case "icrc2_approve":
		f, err := common.CandidRecordArg(raw)
		if err != nil {
			return nil, err
		}
		args := types.ApproveArgs{
			Spender:           f.Account("spender"),
			Amount:            f.Nat("amount"),
			Fee:               f.OptNat("fee"),
			FromSubaccount:    f.OptSubaccount("from_subaccount"),
			ExpectedAllowance: f.OptNat("expected_allowance"),
			ExpiresAt:         f.OptUint64("expires_at"),
			Memo:              f.OptBlob("memo"),
			CreatedAtTime:     f.OptUint64("created_at_time"),
		}
		if err := f.Err(); err != nil {
			return nil, err
		}
		return types.NewCall(types.OpApprove, args), nil

	case "icrc2_allowance":
		f, err := common.CandidRecordArg(raw)
		if err != nil {
			return nil, err
		}
		args := types.AllowanceArgs{
			Account: f.Account("account"),
			Spender: f.Account("spender"),
		}
		if err := f.Err(); err != nil {
			return nil, err
		}
		return types.NewCall(types.OpAllowance, args), nil
	}
	return nil, nil
}

// === CBOR ===

type cborTransferFromArgs struct {
	SpenderSubaccount [][]byte           `cbor:"spender_subaccount"`
	From              common.CBORAccount `cbor:"from"`
	To                common.CBORAccount `cbor:"to"`
	Amount            *big.Int           `cbor:"amount"`
	Fee               []*big.Int         `cbor:"fee"`
	Memo              [][]byte           `cbor:"memo"`
	CreatedAtTime     []uint64           `cbor:"created_at_time"`
}

type cborApproveArgs struct {
	FromSubaccount    [][]byte           `cbor:"from_subaccount"`
	Spender           common.CBORAccount `cbor:"spender"`
	Amount            *big.Int           `cbor:"amount"`
	ExpectedAllowance []*big.Int         `cbor:"expected_allowance"`
	ExpiresAt         []uint64           `cbor:"expires_at"`
	Fee               []*big.Int         `cbor:"fee"`
	Memo              [][]byte           `cbor:"memo"`
	CreatedAtTime     []uint64           `cbor:"created_at_time"`
}

type cborAllowanceArgs struct {
	Account common.CBORAccount `cbor:"account"`
	Spender common.CBORAccount `cbor:"spender"`
}

func decodeCBOR(method string, raw []byte) (*types.CallDescription, error) {
	var r common.CBORReader
	switch method {
	case "icrc2_transfer_from":
		var in cborTransferFromArgs
		if err := common.CBORRecordArg(raw, &in); err != nil {
			return nil, err
		}
		args := types.TransferFromArgs{
			From:              r.Account(in.From),
			To:                r.Account(in.To),
			Amount:            r.Nat("amount", in.Amount),
			Fee:               r.OptNat(in.Fee),
			SpenderSubaccount: r.OptSubaccount(in.SpenderSubaccount),
			Memo:              r.OptBlob(in.Memo),
			CreatedAtTime:     r.OptUint64(in.CreatedAtTime),
		}
		if r.Err() != nil {
			return nil, r.Err()
		}
		return types.NewCall(types.OpTransferFrom, args), nil

	case "icrc2_approve":
		var in cborApproveArgs
		if err := common.CBORRecordArg(raw, &in); err != nil {
			return nil, err
		}
		args := types.ApproveArgs{
			Spender:           r.Account(in.Spender),
			Amount:            r.Nat("amount", in.Amount),
			Fee:               r.OptNat(in.Fee),
			FromSubaccount:    r.OptSubaccount(in.FromSubaccount),
			ExpectedAllowance: r.OptNat(in.ExpectedAllowance),
			ExpiresAt:         r.OptUint64(in.ExpiresAt),
			Memo:              r.OptBlob(in.Memo),
			CreatedAtTime:     r.OptUint64(in.CreatedAtTime),
		}
		if r.Err() != nil {
			return nil, r.Err()
		}
		return types.NewCall(types.OpApprove, args), nil

	case "icrc2_allowance":
		var in cborAllowanceArgs
		if err := common.CBORRecordArg(raw, &in); err != nil {
			return nil, err
		}
		args := types.AllowanceArgs{
			Account: r.Account(in.Account),
			Spender: r.Account(in.Spender),
		}
		if r.Err() != nil {
			return nil, r.Err()
		}
		return types.NewCall(types.OpAllowance, args), nil
	}
	return nil, nil
}
