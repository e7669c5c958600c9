package dip721v2approval

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/codec/cbor"
	"github.com/weisyn/tokens/internal/core/token/standards/dip721v2"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	collection = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	operator   = types.MustParseIdentity("aaaaa-aa")
	ctx        = context.Background()
)

var txResultType = candid.VariantOf(
	candid.F("Ok", candid.Nat),
	candid.F("Err", candid.VariantOf(candid.F("Unauthorized", candid.Null))),
)

func interfacesReply(tags ...string) *tokentest.Transport {
	items := make([]any, 0, len(tags))
	for _, tag := range tags {
		items = append(items, candid.Tag(tag, nil))
	}
	return tokentest.NewTransport().ReplyQuery("dip721_supported_interfaces",
		candid.A(candid.VecOf(dip721v2.SupportedInterfaceType), items))
}

func TestProbeRequiresApproval(t *testing.T) {
	got, err := New().Probe(ctx, collection, interfacesReply("Mint", "Approval"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.StandardDIP721V2Approval, got[0].Name)

	_, err = New().Probe(ctx, collection, interfacesReply("Mint"))
	assert.ErrorIs(t, err, ErrApprovalUnsupported)
}

func TestApproveAndRevoke(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("dip721_set_approval_for_all", candid.A(txResultType, candid.Tag("Ok", big.NewInt(2))))
	bound, err := New().Bind(collection, transport, types.NewStandardSet(types.StandardDIP721V2Approval))
	require.NoError(t, err)
	inst := bound.(*Instance)

	_, err = inst.ApproveCollection(ctx, types.CollectionApproval{Spender: operator.String()})
	require.NoError(t, err)
	args, err := transport.LastArgs("dip721_set_approval_for_all")
	require.NoError(t, err)
	assert.Equal(t, []any{operator, true}, args)

	_, err = inst.RevokeCollectionApproval(ctx, types.CollectionApproval{Spender: operator.String()})
	require.NoError(t, err)
	calls := transport.Calls()
	require.Len(t, calls, 2)
	call, err := New().DecodeCall(types.EncodingCandid, "dip721_set_approval_for_all", calls[1].Arg)
	require.NoError(t, err)
	assert.Equal(t, types.OpRevokeCollectionApproval, call.Operation)
	assert.Equal(t, types.CollectionApproval{Spender: "aaaaa-aa"}, call.Args[0])
}

func TestTransferTokenFrom(t *testing.T) {
	transport := tokentest.NewTransport().ReplyUpdate("dip721_transfer_from", candid.A(txResultType, candid.Tag("Ok", big.NewInt(5))))
	bound, err := New().Bind(collection, transport, types.NewStandardSet(types.StandardDIP721V2Approval))
	require.NoError(t, err)

	txID, err := bound.(*Instance).TransferTokenFrom(ctx, types.TransferTokenFromArgs{
		TokenID: big.NewInt(1),
		From:    collection.String(),
		To:      operator.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), txID.Int64())

	call, err := New().DecodeCall(types.EncodingCandid, "dip721_transfer_from", transport.Calls()[0].Arg)
	require.NoError(t, err)
	args := call.Args[0].(types.TransferTokenFromArgs)
	assert.Equal(t, collection.String(), args.From)
	assert.Equal(t, operator.String(), args.To)
}

func TestDecodeCBOR(t *testing.T) {
	raw, err := cbor.MarshalSelfDescribed([]any{collection.Bytes(), operator.Bytes(), uint64(17)})
	require.NoError(t, err)
	call, err := New().DecodeCall(types.EncodingCBOR, "dip721_transfer_from", raw)
	require.NoError(t, err)
	require.NotNil(t, call)
	args := call.Args[0].(types.TransferTokenFromArgs)
	assert.Equal(t, collection.String(), args.From)
	assert.Equal(t, "aaaaa-aa", args.To)
	assert.Equal(t, int64(17), args.TokenID.Int64())

	raw, err = cbor.Marshal([]any{operator.Bytes(), true})
	require.NoError(t, err)
	call, err = New().DecodeCall(types.EncodingCBOR, "dip721_set_approval_for_all", raw)
	require.NoError(t, err)
	assert.Equal(t, types.OpApproveCollection, call.Operation)

	_, err = New().DecodeCall(types.EncodingCBOR, "dip721_set_approval_for_all", []byte{0xa0})
	assert.Error(t, err)

	call, err = New().DecodeCall(types.EncodingCBOR, "dip721_transfer", raw)
	require.NoError(t, err)
	assert.Nil(t, call)
}
