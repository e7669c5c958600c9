package cbor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Owner      []byte   `cbor:"owner"`
	Subaccount [][]byte `cbor:"subaccount"`
}

type transfer struct {
	To     account    `cbor:"to"`
	Amount *big.Int   `cbor:"amount"`
	Fee    []*big.Int `cbor:"fee"`
}

func TestMarshalDeterministic(t *testing.T) {
	a, err := Marshal(map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	b, err := Marshal(map[string]any{"a": 2, "b": 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSelfDescribe(t *testing.T) {
	raw, err := MarshalSelfDescribed([]int{1})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xd9, 0xd9, 0xf7, 0x81, 0x01}, raw)
	assert.Equal(t, []byte{0x81, 0x01}, StripSelfDescribe(raw))

	var out []int
	require.NoError(t, Unmarshal(raw, &out))
	assert.Equal(t, []int{1}, out)
}

func TestDecodeArgs(t *testing.T) {
	huge, _ := new(big.Int).SetString("340282366920938463463374607431768211456", 10)
	raw, err := MarshalSelfDescribed([]any{
		transfer{
			To:     account{Owner: []byte{0x04}, Subaccount: [][]byte{}},
			Amount: huge,
			Fee:    []*big.Int{big.NewInt(10)},
		},
		"second",
	})
	require.NoError(t, err)

	args, err := DecodeArgs(raw)
	require.NoError(t, err)
	require.Len(t, args, 2)

	var got transfer
	require.NoError(t, DecodeArg(args, 0, &got))
	assert.Equal(t, []byte{0x04}, got.To.Owner)
	assert.Empty(t, got.To.Subaccount)
	assert.Equal(t, 0, huge.Cmp(got.Amount))
	require.Len(t, got.Fee, 1)
	assert.Equal(t, int64(10), got.Fee[0].Int64())

	var second string
	require.NoError(t, DecodeArg(args, 1, &second))
	assert.Equal(t, "second", second)

	assert.Error(t, DecodeArg(args, 2, &second))
}

func TestDecodeArgsNotArray(t *testing.T) {
	raw, err := Marshal(map[string]any{"a": 1})
	require.NoError(t, err)
	_, err = DecodeArgs(raw)
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = DecodeArgs([]byte("DIDL\x00\x00"))
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestDiagnose(t *testing.T) {
	raw, err := MarshalSelfDescribed([]int{1, 2})
	require.NoError(t, err)
	diag, err := Diagnose(raw)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", diag)
}
