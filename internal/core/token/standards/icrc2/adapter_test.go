package icrc2

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/codec/cbor"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	ledger  = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	spender = "aaaaa-aa-nygwkoy.1"
	ctx     = context.Background()
)

var resultType = candid.VariantOf(
	candid.F("Ok", candid.Nat),
	candid.F("Err", candid.VariantOf(
		candid.F("InsufficientAllowance", candid.RecordOf(candid.F("allowance", candid.Nat))),
		candid.F("GenericError", candid.RecordOf(candid.F("error_code", candid.Nat), candid.F("message", candid.Text))),
	)),
)

func bind(t *testing.T, transport *tokentest.Transport, standards ...string) *Instance {
	t.Helper()
	inst, err := New().Bind(ledger, transport, types.NewStandardSet(standards...))
	require.NoError(t, err)
	return inst.(*Instance)
}

func TestStandardsRequireICRC1(t *testing.T) {
	assert.Equal(t, []string{types.StandardICRC1, types.StandardICRC2}, New().Standards())

	inst := bind(t, tokentest.NewTransport(), types.StandardICRC1, types.StandardICRC2)
	assert.True(t, inst.Capabilities().Has(types.OpApprove))
	assert.True(t, inst.Capabilities().Has(types.OpAllowance))
	assert.True(t, inst.Capabilities().Has(types.OpTransferFrom))
	assert.False(t, inst.Capabilities().Has(types.OpTransfer))
}

func TestApprove(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("icrc2_approve", candid.A(resultType, candid.Tag("Ok", big.NewInt(11))))
	inst := bind(t, transport, types.StandardICRC1, types.StandardICRC2)

	expires := uint64(1_800_000_000_000_000_000)
	txID, err := inst.Approve(ctx, types.ApproveArgs{
		Spender:           spender,
		Amount:            big.NewInt(500),
		ExpectedAllowance: big.NewInt(0),
		ExpiresAt:         &expires,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), txID.Int64())

	// 发出的参数经解码器还原后一致
	calls := transport.Calls()
	require.Len(t, calls, 1)
	call, err := New().DecodeCall(types.EncodingCandid, "icrc2_approve", calls[0].Arg)
	require.NoError(t, err)
	require.NotNil(t, call)
	args := call.Args[0].(types.ApproveArgs)
	assert.Equal(t, spender, args.Spender)
	assert.Equal(t, int64(500), args.Amount.Int64())
	assert.Equal(t, int64(0), args.ExpectedAllowance.Int64())
	require.NotNil(t, args.ExpiresAt)
	assert.Equal(t, expires, *args.ExpiresAt)
	assert.Nil(t, args.Fee)
	assert.Nil(t, args.FromSubaccount)
}

func TestTransferFromRejected(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("icrc2_transfer_from", candid.A(resultType,
		candid.Tag("Err", candid.Tag("InsufficientAllowance", candid.Fields("allowance", big.NewInt(3))))))
	inst := bind(t, transport, types.StandardICRC1, types.StandardICRC2)

	_, err := inst.TransferFrom(ctx, types.TransferFromArgs{
		From:   ledger.String(),
		To:     spender,
		Amount: big.NewInt(10),
	})
	var rejected *types.ContractRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "icrc2_transfer_from", rejected.Method)
	payload, ok := rejected.Payload.(candid.Variant)
	require.True(t, ok)
	assert.True(t, payload.Is("InsufficientAllowance"))
}

func TestAllowance(t *testing.T) {
	allowanceType := candid.RecordOf(candid.F("allowance", candid.Nat), candid.F("expires_at", candid.OptOf(candid.Nat64)))
	transport := tokentest.NewTransport().ReplyQuery("icrc2_allowance", candid.A(allowanceType,
		candid.Fields("allowance", big.NewInt(99), "expires_at", candid.None)))
	inst := bind(t, transport, types.StandardICRC1, types.StandardICRC2)

	got, err := inst.Allowance(ctx, types.AllowanceArgs{Account: ledger.String(), Spender: spender})
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Allowance.Int64())
	assert.Nil(t, got.ExpiresAt)

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Update)
}

func cborAccount(owner types.Identity, sub []byte) map[string]any {
	opt := []any{}
	if sub != nil {
		opt = append(opt, sub)
	}
	return map[string]any{"owner": owner.Bytes(), "subaccount": opt}
}

func TestDecodeCBORTransferFrom(t *testing.T) {
	sub := types.SubaccountFromIndex(1).Bytes()
	raw, err := cbor.MarshalSelfDescribed([]any{map[string]any{
		"spender_subaccount": []any{},
		"from":               cborAccount(ledger, nil),
		"to":                 cborAccount(types.Identity{}, sub),
		"amount":             uint64(1000),
		"fee":                []any{uint64(10)},
		"memo":               []any{},
		"created_at_time":    []any{},
	}})
	require.NoError(t, err)

	call, err := New().DecodeCall(types.EncodingCBOR, "icrc2_transfer_from", raw)
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, types.OpTransferFrom, call.Operation)
	args := call.Args[0].(types.TransferFromArgs)
	assert.Equal(t, ledger.String(), args.From)
	assert.Equal(t, spender, args.To)
	assert.Equal(t, int64(1000), args.Amount.Int64())
	assert.Equal(t, int64(10), args.Fee.Int64())
	assert.Nil(t, args.Memo)
	assert.Nil(t, args.CreatedAtTime)
}

func TestDecodeCBORApproveAndAllowance(t *testing.T) {
	raw, err := cbor.Marshal([]any{map[string]any{
		"from_subaccount":    []any{},
		"spender":            cborAccount(ledger, nil),
		"amount":             uint64(5),
		"expected_allowance": []any{},
		"expires_at":         []any{uint64(42)},
		"fee":                []any{},
		"memo":               []any{[]byte("m")},
		"created_at_time":    []any{},
	}})
	require.NoError(t, err)

	call, err := New().DecodeCall(types.EncodingCBOR, "icrc2_approve", raw)
	require.NoError(t, err)
	args := call.Args[0].(types.ApproveArgs)
	assert.Equal(t, ledger.String(), args.Spender)
	require.NotNil(t, args.ExpiresAt)
	assert.Equal(t, uint64(42), *args.ExpiresAt)
	assert.Equal(t, []byte("m"), args.Memo)

	raw, err = cbor.Marshal([]any{map[string]any{
		"account": cborAccount(ledger, nil),
		"spender": cborAccount(types.Identity{}, types.SubaccountFromIndex(1).Bytes()),
	}})
	require.NoError(t, err)
	call, err = New().DecodeCall(types.EncodingCBOR, "icrc2_allowance", raw)
	require.NoError(t, err)
	assert.Equal(t, types.OpAllowance, call.Operation)
	assert.Equal(t, types.AllowanceArgs{Account: ledger.String(), Spender: spender}, call.Args[0])
}

func TestDecodeCBORErrors(t *testing.T) {
	a := New()

	// 缺少 amount
	raw, err := cbor.Marshal([]any{map[string]any{"spender": cborAccount(ledger, nil)}})
	require.NoError(t, err)
	_, err = a.DecodeCall(types.EncodingCBOR, "icrc2_approve", raw)
	assert.Error(t, err)

	_, err = a.DecodeCall(types.EncodingCBOR, "icrc2_allowance", []byte{0x01})
	assert.Error(t, err)

	call, err := a.DecodeCall(types.EncodingCBOR, "icrc1_transfer", raw)
	require.NoError(t, err)
	assert.Nil(t, call)
}
