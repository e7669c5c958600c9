package ext

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	collection = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	holder     = types.MustParseIdentity("aaaaa-aa")
	ctx        = context.Background()
)

var (
	commonErrorType = candid.VariantOf(candid.F("InvalidToken", candid.Text), candid.F("Other", candid.Text))

	extMetadataType = candid.VariantOf(
		candid.F("nonfungible", candid.RecordOf(candid.F("metadata", candid.OptOf(candid.Blob)))),
	)

	httpResponseType = candid.RecordOf(
		candid.F("body", candid.Blob),
		candid.F("headers", candid.VecOf(candid.TupleOf(candid.Text, candid.Text))),
		candid.F("status_code", candid.Nat16),
	)

	tokensResultType   = candid.VariantOf(candid.F("ok", candid.VecOf(candid.Nat32)), candid.F("err", commonErrorType))
	transferResultType = candid.VariantOf(
		candid.F("ok", candid.Nat),
		candid.F("err", candid.VariantOf(candid.F("Unauthorized", candid.Text), candid.F("Other", candid.Text))),
	)
)

func bind(t *testing.T, transport interface {
	Query(context.Context, types.Identity, string, []byte) ([]byte, error)
	Update(context.Context, types.Identity, string, []byte) ([]byte, error)
}, opts ...Option) *Instance {
	t.Helper()
	inst, err := New(opts...).Bind(collection, transport,
		types.NewStandardSet(types.StandardEXTCommon, types.StandardEXTNonFungible))
	require.NoError(t, err)
	return inst.(*Instance)
}

func getTokensReply(ids ...uint32) candid.Arg {
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, candid.Tuple(id, candid.Tag("nonfungible", candid.Fields("metadata", candid.None))))
	}
	return candid.A(candid.VecOf(candid.TupleOf(candid.Nat32, extMetadataType)), items)
}

func indexPage(status uint16, body string) candid.Arg {
	return candid.A(httpResponseType, candid.Fields(
		"body", []byte(body),
		"headers", []any{},
		"status_code", status,
	))
}

func TestTokenIdentifier(t *testing.T) {
	tid, err := TokenIdentifier(collection, 4242)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte("\x0Atid"), collection.Bytes()...), 0, 0, 0x10, 0x92), tid.Bytes())

	index, err := TokenIndexFromText(tid.String())
	require.NoError(t, err)
	assert.Equal(t, uint32(4242), index)

	_, err = TokenIndex(collection)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = indexOf(new(big.Int).Lsh(big.NewInt(1), 32))
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestProbe(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("extensions",
		candid.A(candid.VecOf(candid.Text), []any{"@ext/common", "@ext/nonfungible"}))
	got, err := New().Probe(ctx, collection, transport)
	require.NoError(t, err)
	assert.Equal(t, []string{types.StandardEXTCommon, types.StandardEXTNonFungible},
		types.StandardSetOf(got).Names())

	transport = tokentest.NewTransport().ReplyQuery("extensions",
		candid.A(candid.VecOf(candid.Text), []any{"@ext/common"}))
	got, err = New().Probe(ctx, collection, transport)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestName(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("http_request", indexPage(200, "Cool Cats\nEXT by Toniq Labs"))
	name, err := bind(t, transport).Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cool Cats", name)

	transport = tokentest.NewTransport().ReplyQuery("http_request", indexPage(404, "not found"))
	name, err = bind(t, transport).Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, name)

	dir := &fakeDirectory{collections: map[string]Collection{
		collection.String(): {ID: collection.String(), Name: "Dirs", Unit: "DIR"},
	}}
	transport = tokentest.NewTransport()
	inst := bind(t, transport, WithDirectory(dir))
	name, err = inst.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dirs", name)

	symbol, err := inst.Symbol(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DIR", symbol)
}

func TestNameException(t *testing.T) {
	inst, err := New().Bind(types.MustParseIdentity("bzsui-sqaaa-aaaah-qce2a-cai"), tokentest.NewTransport(),
		types.NewStandardSet(types.StandardEXTCommon, types.StandardEXTNonFungible))
	require.NoError(t, err)
	name, err := inst.(*Instance).Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Poked Bots", name)
}

func TestMetadata(t *testing.T) {
	transport := tokentest.NewTransport().
		ReplyQuery("http_request", indexPage(200, "Cats\n---")).
		ReplyQuery("getTokens", getTokensReply(1, 2, 3))
	metadata, err := bind(t, transport).Metadata(ctx)
	require.NoError(t, err)

	name, _ := metadata.Text(MetadataName)
	assert.Equal(t, "Cats", name)
	symbol, _ := metadata.Text(MetadataSymbol)
	assert.Equal(t, DefaultSymbol, symbol)
	total, ok := metadata.Nat(MetadataTotalSupply)
	require.True(t, ok)
	assert.Equal(t, int64(3), total.Int64())
}

func TestTokensPagination(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("getTokens", getTokensReply(5, 1, 3, 2))
	inst := bind(t, transport)

	ids, err := inst.Tokens(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 5}, int64s(ids))

	ids, err = inst.Tokens(ctx, big.NewInt(2), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, int64s(ids))

	ids, err = inst.Tokens(ctx, big.NewInt(4), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBalanceAndTokensOf(t *testing.T) {
	account := address.Encode(types.NewAccount(holder, nil))
	hash := address.Hash(types.NewAccount(holder, nil))

	transport := tokentest.NewTransport().ReplyQuery("tokens",
		candid.A(tokensResultType, candid.Tag("ok", []any{uint32(9), uint32(4)})))
	inst := bind(t, transport)

	balance, err := inst.BalanceOf(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance.Int64())

	args, err := transport.LastArgs("tokens")
	require.NoError(t, err)
	assert.Equal(t, hash, args[0])

	ids, err := inst.TokensOf(ctx, hash, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, int64s(ids))

	transport = tokentest.NewTransport().ReplyQuery("tokens",
		candid.A(tokensResultType, candid.Tag("err", candid.Tag("Other", "no tokens"))))
	balance, err = bind(t, transport).BalanceOf(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Int64())
}

func TestOwnerOf(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("getRegistry",
		candid.A(candid.VecOf(candid.TupleOf(candid.Nat32, candid.Text)), []any{
			candid.Tuple(uint32(1), "aaaa"),
			candid.Tuple(uint32(7), "bbbb"),
		}))
	inst := bind(t, transport)

	owner, ok, err := inst.OwnerOf(ctx, big.NewInt(7))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bbbb", owner)

	_, ok, err = inst.OwnerOf(ctx, big.NewInt(8))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenMetadata(t *testing.T) {
	dir := &fakeDirectory{attributes: map[uint32]types.MetadataValue{
		3: types.MapValue(types.Metadata{{Key: "hat", Value: types.TextValue("red")}}),
	}}
	inst := bind(t, tokentest.NewTransport(), WithDirectory(dir))

	metadata, ok, err := inst.TokenMetadata(ctx, big.NewInt(3))
	require.NoError(t, err)
	require.True(t, ok)

	a := New()
	tid, err := TokenIdentifier(collection, 3)
	require.NoError(t, err)
	image, ok := a.TokenMetadataToImage(metadata)
	require.True(t, ok)
	assert.Equal(t, "https://"+collection.String()+".raw.icp0.io/?tokenid="+tid.String(), image)

	url, ok := a.TokenMetadataToURL(metadata)
	require.True(t, ok)
	assert.Equal(t, image, url)

	attributes, ok := a.TokenMetadataToAttributes(metadata)
	require.True(t, ok)
	assert.Equal(t, []types.Attribute{{Value: "red", TraitType: "hat"}}, attributes)

	_, ok = a.TokenMetadataToName(metadata)
	assert.False(t, ok)

	metadata, ok, err = bind(t, tokentest.NewTransport()).TokenMetadata(ctx, big.NewInt(4))
	require.NoError(t, err)
	require.True(t, ok)
	_, ok = a.TokenMetadataToAttributes(metadata)
	assert.False(t, ok)
}

func TestTransferToken(t *testing.T) {
	to := types.MustParseIdentity("2vxsx-fae")
	transport := tokentest.NewTransport().ReplyUpdate("transfer", candid.A(transferResultType, candid.Tag("ok", big.NewInt(1))))

	_, err := bind(t, transport).TransferToken(ctx, types.TransferTokenArgs{TokenID: big.NewInt(3), To: to.String()})
	assert.ErrorIs(t, err, ErrSenderRequired)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	inst := bind(t, transport.As(holder))
	got, err := inst.TransferToken(ctx, types.TransferTokenArgs{TokenID: big.NewInt(3), To: to.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Int64())

	args, err := transport.LastArgs("transfer")
	require.NoError(t, err)
	rec, err := candid.AsRecord(args[0])
	require.NoError(t, err)

	tid, err := TokenIdentifier(collection, 3)
	require.NoError(t, err)
	token, _ := rec.Get("token")
	assert.Equal(t, tid.String(), token)
	memo, _ := rec.Get("memo")
	assert.Equal(t, []byte{0}, memo)

	from, _ := rec.Get("from")
	sender, err := userText(from)
	require.NoError(t, err)
	assert.Equal(t, address.Hash(types.NewAccount(holder, nil)), sender)

	recipient, _ := rec.Get("to")
	toText, err := userText(recipient)
	require.NoError(t, err)
	assert.Equal(t, address.Hash(types.NewAccount(to, nil)), toText)

	transport.ReplyUpdate("transfer", candid.A(transferResultType, candid.Tag("err", candid.Tag("Unauthorized", "x"))))
	_, err = inst.TransferToken(ctx, types.TransferTokenArgs{TokenID: big.NewInt(3), To: to.String()})
	var rejected *types.ContractRejectedError
	assert.ErrorAs(t, err, &rejected)
}

func TestDecodeCall(t *testing.T) {
	a := New()

	call, err := a.DecodeCall(types.EncodingCandid, "getTokens", candid.MustEncode())
	require.NoError(t, err)
	assert.Equal(t, types.OpTokens, call.Operation)

	call, err = a.DecodeCall(types.EncodingCandid, "tokens", candid.MustEncode(candid.A(candid.Text, "abcd")))
	require.NoError(t, err)
	assert.Equal(t, types.NewCall(types.OpTokensOf, "abcd"), call)

	tid, err := TokenIdentifier(collection, 12)
	require.NoError(t, err)
	sub := types.SubaccountFromIndex(1)
	raw := candid.MustEncode(candid.A(TransferRequestType, candid.Fields(
		"to", candid.Tag("principal", holder),
		"token", tid.String(),
		"notify", false,
		"from", candid.Tag("address", "ffff"),
		"memo", []byte{7},
		"subaccount", candid.Some(sub.Bytes()),
		"amount", big.NewInt(1),
	)))
	call, err = a.DecodeCall(types.EncodingCandid, "transfer", raw)
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, types.OpTransferToken, call.Operation)
	args := call.Args[0].(types.TransferTokenArgs)
	assert.Equal(t, int64(12), args.TokenID.Int64())
	assert.Equal(t, holder.String(), args.To)
	assert.Equal(t, []byte{7}, args.Memo)
	require.NotNil(t, args.FromSubaccount)
	assert.Equal(t, sub, *args.FromSubaccount)

	call, err = a.DecodeCall(types.EncodingCandid, "unknown", raw)
	assert.NoError(t, err)
	assert.Nil(t, call)

	call, err = a.DecodeCall(types.EncodingCBOR, "getTokens", nil)
	assert.NoError(t, err)
	assert.Nil(t, call)
}

func TestHTTPDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/collections":
			_, _ = w.Write([]byte(`[{"id":"` + collection.String() + `","name":"Cats","unit":"CAT","avatar":"/a.png"},{"name":"no id"}]`))
		case "/filter/" + collection.String() + ".json":
			_, _ = w.Write([]byte(`[[[0,"hat",[[0,"red"],[1,"blue"]]],[1,"eyes",[[0,"green"]]]],[[3,[[0,1],[1,0]]],[4,[[5,5]]]]]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := NewHTTPDirectory(DirectoryConfig{
		CollectionsURL: srv.URL + "/collections",
		FiltersURL:     srv.URL + "/filter/%s.json",
		AssetsBaseURL:  srv.URL,
	}, nil)

	c, ok, err := dir.Collection(ctx, collection.String())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "CAT", c.Unit)

	logo, ok, err := dir.Logo(ctx, collection.String())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, srv.URL+"/a.png", logo)

	_, ok, err = dir.Logo(ctx, holder.String())
	require.NoError(t, err)
	assert.False(t, ok)

	attrs, ok, err := dir.Attributes(ctx, collection.String(), 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.MapValue(types.Metadata{
		{Key: "hat", Value: types.TextValue("blue")},
		{Key: "eyes", Value: types.TextValue("green")},
	}), attrs)

	_, ok, err = dir.Attributes(ctx, collection.String(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

type fakeDirectory struct {
	collections map[string]Collection
	attributes  map[uint32]types.MetadataValue
}

func (d *fakeDirectory) Collection(_ context.Context, canister string) (Collection, bool, error) {
	c, ok := d.collections[canister]
	return c, ok, nil
}

func (d *fakeDirectory) Logo(_ context.Context, canister string) (string, bool, error) {
	return "", false, nil
}

func (d *fakeDirectory) Attributes(_ context.Context, _ string, index uint32) (types.MetadataValue, bool, error) {
	v, ok := d.attributes[index]
	return v, ok, nil
}

func int64s(ids []*big.Int) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Int64())
	}
	return out
}
