package dip20

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

var (
	contract = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	minter   = types.MustParseIdentity("aaaaa-aa")
	ctx      = context.Background()
)

var txResultType = candid.VariantOf(
	candid.F("Ok", candid.Nat),
	candid.F("Err", candid.VariantOf(candid.F("InsufficientBalance", candid.Null), candid.F("Other", candid.Null))),
)

func metadataReply() candid.Arg {
	return candid.A(MetadataType, candid.Fields(
		"fee", big.NewInt(0),
		"decimals", uint8(8),
		"owner", minter,
		"logo", "",
		"name", "Wrapped ICP",
		"totalSupply", big.NewInt(21_000_000),
		"symbol", "WICP",
	))
}

func dip20Transport(allowance int64) *tokentest.Transport {
	return tokentest.NewTransport().
		ReplyQuery("getMetadata", metadataReply()).
		ReplyQuery("allowance", candid.A(candid.Nat, big.NewInt(allowance)))
}

func TestProbeHeuristic(t *testing.T) {
	transport := dip20Transport(0)
	got, err := New().Probe(ctx, contract, transport)
	require.NoError(t, err)
	assert.Equal(t, []types.StandardDescriptor{Descriptor}, got)

	args, err := transport.LastArgs("allowance")
	require.NoError(t, err)
	assert.Equal(t, []any{probeOwner, probeSpender}, args)
}

func TestProbeHeuristicRejects(t *testing.T) {
	// 额度不为 0
	_, err := New().Probe(ctx, contract, dip20Transport(5))
	assert.ErrorIs(t, err, ErrNotDIP20)

	// 元数据形状不对
	transport := tokentest.NewTransport().
		ReplyQuery("getMetadata", candid.A(candid.RecordOf(candid.F("name", candid.Text)), candid.Fields("name", "x"))).
		ReplyQuery("allowance", candid.A(candid.Nat, big.NewInt(0)))
	_, err = New().Probe(ctx, contract, transport)
	assert.ErrorIs(t, err, ErrNotDIP20)

	// 没有 getMetadata
	_, err = New().Probe(ctx, contract, tokentest.NewTransport())
	assert.ErrorIs(t, err, tokentest.ErrMethodNotFound)
}

func bind(t *testing.T, transport *tokentest.Transport) *Instance {
	t.Helper()
	inst, err := New().Bind(contract, transport, types.NewStandardSet(types.StandardDIP20))
	require.NoError(t, err)
	return inst.(*Instance)
}

func TestMetadataAndMintingAccount(t *testing.T) {
	inst := bind(t, dip20Transport(0))

	metadata, err := inst.Metadata(ctx)
	require.NoError(t, err)
	name, ok := metadata.Text(MetadataName)
	assert.True(t, ok)
	assert.Equal(t, "Wrapped ICP", name)
	decimals, ok := metadata.Nat(MetadataDecimals)
	assert.True(t, ok)
	assert.Equal(t, int64(8), decimals.Int64())

	account, ok, err := inst.MintingAccount(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "aaaaa-aa", account)

	fee, err := inst.Fee(ctx)
	require.NoError(t, err)
	assert.Zero(t, fee.Sign())
}

func TestLogoEmptyIsUnset(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("logo", candid.A(candid.Text, ""))
	_, ok, err := bind(t, transport).Logo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBalanceOfRejectsSubaccount(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("balanceOf", candid.A(candid.Nat, big.NewInt(12)))
	inst := bind(t, transport)

	balance, err := inst.BalanceOf(ctx, contract.String())
	require.NoError(t, err)
	assert.Equal(t, int64(12), balance.Int64())

	_, err = inst.BalanceOf(ctx, "aaaaa-aa-nygwkoy.1")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestTransfer(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("transfer", candid.A(txResultType, candid.Tag("Ok", big.NewInt(3))))
	inst := bind(t, transport)

	txID, err := inst.Transfer(ctx, types.TransferArgs{To: "aaaaa-aa", Amount: big.NewInt(50)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), txID.Int64())

	call, err := New().DecodeCall(types.EncodingCandid, "transfer", transport.Calls()[0].Arg)
	require.NoError(t, err)
	require.NotNil(t, call)
	args := call.Args[0].(types.TransferArgs)
	assert.Equal(t, "aaaaa-aa", args.To)
	assert.Equal(t, int64(50), args.Amount.Int64())
}

func TestTransferRejected(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("transfer", candid.A(txResultType, candid.Tag("Err", candid.Tag("InsufficientBalance", nil))))
	_, err := bind(t, transport).Transfer(ctx, types.TransferArgs{To: "aaaaa-aa", Amount: big.NewInt(50)})
	var rejected *types.ContractRejectedError
	assert.True(t, errors.As(err, &rejected))
}

func TestDecodeCall(t *testing.T) {
	a := New()
	call, err := a.DecodeCall(types.EncodingCandid, "getMetadata", nil)
	require.NoError(t, err)
	assert.Equal(t, types.OpMetadata, call.Operation)

	call, err = a.DecodeCall(types.EncodingCandid, "balanceOf", candid.MustEncode(candid.A(candid.Principal, minter)))
	require.NoError(t, err)
	assert.Equal(t, []any{"aaaaa-aa"}, call.Args)

	_, err = a.DecodeCall(types.EncodingCandid, "balanceOf", candid.MustEncode(candid.A(candid.Text, "x")))
	assert.Error(t, err)

	call, err = a.DecodeCall(types.EncodingCandid, "approve", nil)
	require.NoError(t, err)
	assert.Nil(t, call)
}
