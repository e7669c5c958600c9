package icrc10

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/types"
)

var collection = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")

func TestProbe(t *testing.T) {
	descriptorType := candid.VecOf(candid.RecordOf(candid.F("name", candid.Text), candid.F("url", candid.Text)))
	transport := tokentest.NewTransport().ReplyQuery("icrc10_supported_standards", candid.A(descriptorType, []any{
		candid.Fields("name", "ICRC-7", "url", "https://github.com/dfinity/ICRC/ICRCs/ICRC-7"),
		candid.Fields("name", "ICRC-10", "url", "https://github.com/dfinity/ICRC/ICRCs/ICRC-10"),
	}))

	got, err := New().Probe(context.Background(), collection, transport)
	require.NoError(t, err)
	assert.Equal(t, types.StandardSetOf(got).Names(), []string{types.StandardICRC10, types.StandardICRC7})
}

func TestProbeInvalidAnswer(t *testing.T) {
	transport := tokentest.NewTransport().ReplyQuery("icrc10_supported_standards", candid.A(candid.Text, "ICRC-7"))
	_, err := New().Probe(context.Background(), collection, transport)
	assert.Error(t, err)
}

func TestBindHasNoCapabilities(t *testing.T) {
	inst, err := New().Bind(collection, tokentest.NewTransport(), types.NewStandardSet(types.StandardICRC10))
	require.NoError(t, err)
	assert.Empty(t, inst.Capabilities())
}
