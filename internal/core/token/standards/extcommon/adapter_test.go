package extcommon

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/internal/core/token/standards/ext"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	ledger = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	holder = types.MustParseIdentity("aaaaa-aa")
	ctx    = context.Background()

	balanceResultType = candid.VariantOf(
		candid.F("ok", candid.Nat),
		candid.F("err", candid.VariantOf(candid.F("InvalidToken", candid.Text), candid.F("Other", candid.Text))),
	)
)

func bind(t *testing.T, transport *tokentest.Transport) *Instance {
	t.Helper()
	inst, err := New().Bind(ledger, transport, types.NewStandardSet(types.StandardEXTCommon))
	require.NoError(t, err)
	return inst.(*Instance)
}

func TestProbeReportsEveryExtension(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("extensions",
		candid.A(candid.VecOf(candid.Text), []any{"@ext/common", "@ext/allowance"}))
	got, err := New().Probe(ctx, ledger, transport)
	require.NoError(t, err)
	assert.Equal(t, []types.StandardDescriptor{
		{Name: "@ext/common", URL: ext.URL},
		{Name: "@ext/allowance", URL: ext.URL},
	}, got)
}

func TestCapabilities(t *testing.T) {
	inst := bind(t, tokentest.NewTransport())
	caps := inst.Capabilities()
	assert.True(t, caps.Has(types.OpMaxMemoSize))
	assert.True(t, caps.Has(types.OpBalanceOf))
	assert.False(t, caps.Has(types.OpTransfer))

	size, err := inst.MaxMemoSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxMemoSize, size)
}

func TestBalanceOf(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("balance", candid.A(balanceResultType, candid.Tag("ok", big.NewInt(500))))
	inst := bind(t, transport)

	balance, err := inst.BalanceOf(ctx, address.Encode(types.NewAccount(holder, nil)))
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance.Int64())

	args, err := transport.LastArgs("balance")
	require.NoError(t, err)
	rec, err := candid.AsRecord(args[0])
	require.NoError(t, err)
	tokenID, _ := rec.Get("token")
	assert.Equal(t, ledger.String(), tokenID)
	user, _ := rec.Get("user")
	vr, err := candid.AsVariant(user)
	require.NoError(t, err)
	assert.True(t, vr.Is("address"))
	assert.Equal(t, address.Hash(types.NewAccount(holder, nil)), vr.Value)

	transport.ReplyQuery("balance", candid.A(balanceResultType, candid.Tag("err", candid.Tag("InvalidToken", "x"))))
	_, err = inst.BalanceOf(ctx, address.Encode(types.NewAccount(holder, nil)))
	var rejected *types.ContractRejectedError
	assert.ErrorAs(t, err, &rejected)

	_, err = inst.BalanceOf(ctx, "not an account")
	assert.Error(t, err)
}

func TestMetadataFromDirectory(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("getTokens",
		candid.A(candid.VecOf(candid.TupleOf(candid.Nat32, candid.Null)), []any{candid.Tuple(uint32(0), nil)}))
	inst, err := New(WithDirectory(staticDirectory{name: "Wrapped ICP", unit: "WICP"})).
		Bind(ledger, transport, types.NewStandardSet(types.StandardEXTCommon))
	require.NoError(t, err)

	metadata, err := inst.(*Instance).Metadata(ctx)
	require.NoError(t, err)
	name, _ := metadata.Text(ext.MetadataName)
	assert.Equal(t, "Wrapped ICP", name)
	symbol, _ := metadata.Text(ext.MetadataSymbol)
	assert.Equal(t, "WICP", symbol)
	total, ok := metadata.Nat(ext.MetadataTotalSupply)
	require.True(t, ok)
	assert.Equal(t, int64(1), total.Int64())
}

type staticDirectory struct {
	name, unit string
}

func (d staticDirectory) Collection(_ context.Context, canister string) (ext.Collection, bool, error) {
	return ext.Collection{ID: canister, Name: d.name, Unit: d.unit}, true, nil
}

func (d staticDirectory) Logo(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (d staticDirectory) Attributes(context.Context, string, uint32) (types.MetadataValue, bool, error) {
	return types.MetadataValue{}, false, nil
}
