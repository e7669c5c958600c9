package icrc4

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/types"
)

var ledger = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")

var batchResultType = candid.VecOf(candid.OptOf(candid.VariantOf(
	candid.F("Ok", candid.Nat),
	candid.F("Err", candid.VariantOf(candid.F("TooOld", candid.Null))),
)))

func TestBatchTransfer(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("icrc4_transfer_batch", candid.A(batchResultType, []any{
		candid.Some(candid.Tag("Ok", big.NewInt(1))),
		candid.None,
		candid.Some(candid.Tag("Err", candid.Tag("TooOld", nil))),
	}))
	inst, err := New().Bind(ledger, transport, types.NewStandardSet(types.StandardICRC4))
	require.NoError(t, err)
	assert.True(t, inst.Capabilities().Has(types.OpBatchTransfer))

	batch := []types.TransferArgs{
		{To: ledger.String(), Amount: big.NewInt(1)},
		{To: "aaaaa-aa-nygwkoy.1", Amount: big.NewInt(2)},
		{To: ledger.String(), Amount: big.NewInt(3)},
	}
	results, err := inst.(*Instance).BatchTransfer(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, int64(1), results[0].TxID.Int64())
	assert.NoError(t, results[0].Err)

	assert.Nil(t, results[1].TxID)
	assert.NoError(t, results[1].Err)

	var rejected *types.ContractRejectedError
	assert.True(t, errors.As(results[2].Err, &rejected))
	assert.Nil(t, results[2].TxID)

	// 发出的批量参数可被解码
	calls := transport.Calls()
	require.Len(t, calls, 1)
	call, err := New().DecodeCall(types.EncodingCandid, "icrc4_transfer_batch", calls[0].Arg)
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, types.OpBatchTransfer, call.Operation)
	decoded := call.Args[0].([]types.TransferArgs)
	require.Len(t, decoded, 3)
	assert.Equal(t, "aaaaa-aa-nygwkoy.1", decoded[1].To)
	assert.Equal(t, int64(3), decoded[2].Amount.Int64())
}

func TestBatchTransferInvalidItem(t *testing.T) {
	transport := tokentest.NewTransport()
	inst, err := New().Bind(ledger, transport, types.NewStandardSet(types.StandardICRC4))
	require.NoError(t, err)

	_, err = inst.(*Instance).BatchTransfer(context.Background(), []types.TransferArgs{{To: "bad", Amount: big.NewInt(1)}})
	assert.Error(t, err)
	assert.Empty(t, transport.Calls())
}

func TestDecodeCallIgnoresOtherMethods(t *testing.T) {
	call, err := New().DecodeCall(types.EncodingCandid, "icrc1_transfer", nil)
	require.NoError(t, err)
	assert.Nil(t, call)

	call, err = New().DecodeCall(types.EncodingCBOR, "icrc4_transfer_batch", nil)
	require.NoError(t, err)
	assert.Nil(t, call)
}
