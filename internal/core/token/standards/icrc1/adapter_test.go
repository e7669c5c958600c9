package icrc1

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	ledger = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	ctx    = context.Background()
)

var metadataType = candid.VecOf(candid.TupleOf(candid.Text, candid.VariantOf(
	candid.F("Nat", candid.Nat),
	candid.F("Int", candid.Int),
	candid.F("Text", candid.Text),
	candid.F("Blob", candid.Blob),
)))

var resultType = candid.VariantOf(
	candid.F("Ok", candid.Nat),
	candid.F("Err", candid.VariantOf(
		candid.F("InsufficientFunds", candid.RecordOf(candid.F("balance", candid.Nat))),
		candid.F("TemporarilyUnavailable", candid.Null),
	)),
)

func bind(t *testing.T, transport *tokentest.Transport) *Instance {
	t.Helper()
	inst, err := New().Bind(ledger, transport, types.NewStandardSet(types.StandardICRC1))
	require.NoError(t, err)
	return inst.(*Instance)
}

func TestProbe(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("icrc1_supported_standards",
		candid.A(candid.VecOf(candid.RecordOf(candid.F("name", candid.Text), candid.F("url", candid.Text))), []any{
			candid.Fields("name", "ICRC-1", "url", "https://github.com/dfinity/ICRC-1"),
			candid.Fields("name", "ICRC-2", "url", "https://github.com/dfinity/ICRC-1/tree/main/standards/ICRC-2"),
		}))

	got, err := New().Probe(ctx, ledger, transport)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, types.StandardICRC1, got[0].Name)
	assert.Equal(t, types.StandardICRC2, got[1].Name)
}

func TestProbeFailure(t *testing.T) {
	_, err := New().Probe(ctx, ledger, tokentest.NewTransport())
	assert.ErrorIs(t, err, tokentest.ErrMethodNotFound)
}

func TestCapabilities(t *testing.T) {
	inst := bind(t, tokentest.NewTransport())
	caps := inst.Capabilities()
	for _, op := range Capabilities[types.StandardICRC1] {
		assert.True(t, caps.Has(op), op)
	}
	assert.False(t, caps.Has(types.OpApprove))

	// 标准未被接受时能力为空
	other, err := New().Bind(ledger, tokentest.NewTransport(), types.NewStandardSet(types.StandardDIP20))
	require.NoError(t, err)
	assert.Empty(t, other.Capabilities())
}

func TestMetadataLogoAndMemo(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("icrc1_metadata", candid.A(metadataType, []any{
		candid.Tuple("icrc1:name", candid.Tag("Text", "Internet Computer")),
		candid.Tuple("icrc1:logo", candid.Tag("Text", "data:image/svg+xml;base64,AAAA")),
		candid.Tuple("icrc1:max_memo_size", candid.Tag("Nat", big.NewInt(64))),
	}))
	inst := bind(t, transport)

	metadata, err := inst.Metadata(ctx)
	require.NoError(t, err)
	require.Len(t, metadata, 3)
	name, ok := metadata.Text("icrc1:name")
	assert.True(t, ok)
	assert.Equal(t, "Internet Computer", name)

	logo, ok, err := inst.Logo(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "data:image/svg+xml;base64,AAAA", logo)

	size, err := inst.MaxMemoSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 64, size)
}

func TestMaxMemoSizeDefault(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("icrc1_metadata", candid.A(metadataType, []any{}))
	inst := bind(t, transport)

	size, err := inst.MaxMemoSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxMemoSize, size)

	_, ok, err := inst.Logo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimpleQueries(t *testing.T) {
	transport := tokentest.NewTransport().
		ReplyQuery("icrc1_name", candid.A(candid.Text, "Internet Computer")).
		ReplyQuery("icrc1_symbol", candid.A(candid.Text, "ICP")).
		ReplyQuery("icrc1_decimals", candid.A(candid.Nat8, uint8(8))).
		ReplyQuery("icrc1_fee", candid.A(candid.Nat, big.NewInt(10000))).
		ReplyQuery("icrc1_total_supply", candid.A(candid.Nat, big.NewInt(1_000_000)))
	inst := bind(t, transport)

	name, err := inst.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Internet Computer", name)

	symbol, err := inst.Symbol(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ICP", symbol)

	decimals, err := inst.Decimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, decimals)

	fee, err := inst.Fee(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), fee.Int64())

	supply, err := inst.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), supply.Int64())
}

func TestBalanceOfSendsAccountRecord(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("icrc1_balance_of", candid.A(candid.Nat, big.NewInt(42)))
	inst := bind(t, transport)

	balance, err := inst.BalanceOf(ctx, "aaaaa-aa-nygwkoy.1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())

	args, err := transport.LastArgs("icrc1_balance_of")
	require.NoError(t, err)
	account, err := common.AccountText(args[0])
	require.NoError(t, err)
	assert.Equal(t, "aaaaa-aa-nygwkoy.1", account)
}

func TestBalanceOfMalformedAccount(t *testing.T) {
	inst := bind(t, tokentest.NewTransport())
	_, err := inst.BalanceOf(ctx, "not-an-account")
	assert.Error(t, err)
	assert.Empty(t, tokentestCalls(inst))
}

func tokentestCalls(inst *Instance) []tokentest.Call {
	return inst.Transport.(*tokentest.Transport).Calls()
}

func TestMintingAccount(t *testing.T) {
	optAccount := candid.OptOf(common.AccountType)

	transport := tokentest.NewTransport().ReplyQuery("icrc1_minting_account",
		candid.A(optAccount, candid.Some(candid.Fields("owner", ledger, "subaccount", candid.None))))
	account, ok, err := bind(t, transport).MintingAccount(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ledger.String(), account)

	transport = tokentest.NewTransport().ReplyQuery("icrc1_minting_account", candid.A(optAccount, candid.None))
	_, ok, err = bind(t, transport).MintingAccount(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransfer(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("icrc1_transfer", candid.A(resultType, candid.Tag("Ok", big.NewInt(7))))
	inst := bind(t, transport)

	created := uint64(1_700_000_000_000_000_000)
	txID, err := inst.Transfer(ctx, types.TransferArgs{
		To:            "aaaaa-aa-nygwkoy.1",
		Amount:        big.NewInt(100),
		Memo:          []byte("hi"),
		CreatedAtTime: &created,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), txID.Int64())

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Update)

	// 发出的参数可以被同一个解码器还原
	call, err := New().DecodeCall(types.EncodingCandid, "icrc1_transfer", calls[0].Arg)
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, types.OpTransfer, call.Operation)
	args := call.Args[0].(types.TransferArgs)
	assert.Equal(t, "aaaaa-aa-nygwkoy.1", args.To)
	assert.Equal(t, int64(100), args.Amount.Int64())
	assert.Equal(t, []byte("hi"), args.Memo)
	assert.Nil(t, args.Fee)
	require.NotNil(t, args.CreatedAtTime)
	assert.Equal(t, created, *args.CreatedAtTime)
}

func TestTransferRejected(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("icrc1_transfer", candid.A(resultType,
		candid.Tag("Err", candid.Tag("InsufficientFunds", candid.Fields("balance", big.NewInt(1))))))
	inst := bind(t, transport)

	_, err := inst.Transfer(ctx, types.TransferArgs{To: ledger.String(), Amount: big.NewInt(100)})
	var rejected *types.ContractRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, types.StandardICRC1, rejected.Standard)
	assert.Equal(t, "icrc1_transfer", rejected.Method)
}

func TestTransferRequiresAmount(t *testing.T) {
	inst := bind(t, tokentest.NewTransport())
	_, err := inst.Transfer(ctx, types.TransferArgs{To: ledger.String()})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestDecodeCall(t *testing.T) {
	a := New()

	call, err := a.DecodeCall(types.EncodingCandid, "icrc1_fee", candid.MustEncode())
	require.NoError(t, err)
	assert.Equal(t, types.OpFee, call.Operation)
	assert.Empty(t, call.Args)

	rec, err := common.AccountArg("aaaaa-aa-nygwkoy.1")
	require.NoError(t, err)
	call, err = a.DecodeCall(types.EncodingCandid, "icrc1_balance_of", candid.MustEncode(candid.A(common.AccountType, rec)))
	require.NoError(t, err)
	assert.Equal(t, types.OpBalanceOf, call.Operation)
	assert.Equal(t, []any{"aaaaa-aa-nygwkoy.1"}, call.Args)

	call, err = a.DecodeCall(types.EncodingCandid, "icrc2_approve", nil)
	require.NoError(t, err)
	assert.Nil(t, call)

	call, err = a.DecodeCall(types.EncodingCBOR, "icrc1_fee", nil)
	require.NoError(t, err)
	assert.Nil(t, call)

	_, err = a.DecodeCall(types.EncodingCandid, "icrc1_transfer", []byte("garbage"))
	assert.Error(t, err)
}
