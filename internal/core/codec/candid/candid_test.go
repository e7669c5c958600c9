package candid

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/aviate-labs/agent-go/candid/idl"
	"github.com/aviate-labs/agent-go/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/pkg/types"
)

var ledgerID = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")

var account = RecordOf(
	F("owner", Principal),
	F("subaccount", OptOf(Blob)),
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestHash(t *testing.T) {
	assert.Equal(t, uint32(947296307), Hash("owner"))
	assert.Equal(t, uint32(1349681965), Hash("subaccount"))
	assert.Equal(t, uint32(17724), Hash("Ok"))
	assert.Equal(t, uint32(3456837), Hash("Err"))
}

func TestEncodeVectors(t *testing.T) {
	tests := []struct {
		name string
		args []Arg
		want string
	}{
		{"空参数", nil, "4449444c0000"},
		{"nat", []Arg{A(Nat, 42)}, "4449444c00017d2a"},
		{"text", []Arg{A(Text, "hi")}, "4449444c0001710268" + "69"},
		{"opt none", []Arg{A(OptOf(Nat), None)}, "4449444c016e7d010000"},
		{"opt nil", []Arg{A(OptOf(Nat), nil)}, "4449444c016e7d010000"},
		{"principal", []Arg{A(Principal, ledgerID)}, "4449444c000168010a00000000000000020101"},
		{"int 负数", []Arg{A(Int, -129)}, "4449444c00017cff7e"},
		{"nat64", []Arg{A(Nat64, uint64(1))}, "4449444c0001780100000000000000"},
		{"bool", []Arg{A(Bool, true)}, "4449444c00017e01"},
		{
			"账户 record",
			[]Arg{A(account, Fields("owner", ledgerID, "subaccount", None))},
			"4449444c036d7b6e006c02b3b0dac30368ad86ca830501010201" + "0a00000000000000020101" + "00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(A(Nat, -1))
	assert.Error(t, err)
	_, err = Encode(A(Nat8, 256))
	assert.Error(t, err)
	_, err = Encode(A(Text, 1))
	assert.Error(t, err)
	_, err = Encode(A(account, Fields("subaccount", None)))
	assert.Error(t, err, "缺少必填字段")
	_, err = Encode(A(VariantOf(F("Ok", Nat)), Tag("Err", 1)))
	assert.Error(t, err)
	_, err = Encode(A(nil, 1))
	assert.Error(t, err)
}

func TestDecodeVectors(t *testing.T) {
	values, err := Decode(mustHex(t, "4449444c00017d2a"))
	require.NoError(t, err)
	require.Len(t, values, 1)
	n, err := AsNat(values[0])
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.Int64())

	values, err = Decode(mustHex(t, "4449444c0000"))
	require.NoError(t, err)
	assert.Empty(t, values)

	values, err = Decode(mustHex(t, "4449444c00017cff7e"))
	require.NoError(t, err)
	i, err := AsInt(values[0])
	require.NoError(t, err)
	assert.Equal(t, int64(-129), i.Int64())
}

func TestRoundTrip(t *testing.T) {
	sub := types.SubaccountFromIndex(7)
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	transferArg := RecordOf(
		F("to", account),
		F("amount", Nat),
		F("fee", OptOf(Nat)),
		F("memo", OptOf(Blob)),
		F("from_subaccount", OptOf(Blob)),
		F("created_at_time", OptOf(Nat64)),
	)
	result := VariantOf(F("Ok", Nat), F("Err", VariantOf(F("InsufficientFunds", RecordOf(F("balance", Nat))), F("TooOld", Null))))
	createdAt := uint64(1_700_000_000_000_000_000)

	raw, err := Encode(
		A(transferArg, Fields(
			"to", Fields("owner", ledgerID, "subaccount", Some(sub[:])),
			"amount", huge,
			"fee", None,
			"memo", []byte(nil),
			"from_subaccount", Some(sub),
			"created_at_time", &createdAt,
		)),
		A(result, Tag("Err", Tag("TooOld", nil))),
		A(VecOf(Text), []string{"a", "b"}),
		A(TupleOf(Nat8, Int32), Tuple(uint8(3), int32(-5))),
	)
	require.NoError(t, err)

	values, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, values, 4)

	rec, err := AsRecord(values[0])
	require.NoError(t, err)
	to, err := rec.Field("to")
	require.NoError(t, err)
	toRec, err := AsRecord(to)
	require.NoError(t, err)
	owner, err := toRec.Field("owner")
	require.NoError(t, err)
	id, err := AsIdentity(owner)
	require.NoError(t, err)
	assert.Equal(t, ledgerID, id)
	subOpt, err := toRec.OptField("subaccount")
	require.NoError(t, err)
	require.True(t, subOpt.Some)
	blob, err := AsBlob(subOpt.Value)
	require.NoError(t, err)
	assert.Equal(t, sub[:], blob)

	amount, err := rec.Field("amount")
	require.NoError(t, err)
	amountN, err := AsNat(amount)
	require.NoError(t, err)
	assert.Equal(t, 0, huge.Cmp(amountN))

	fee, err := rec.OptField("fee")
	require.NoError(t, err)
	assert.False(t, fee.Some)
	memo, err := rec.OptField("memo")
	require.NoError(t, err)
	assert.False(t, memo.Some)
	from, err := rec.OptField("from_subaccount")
	require.NoError(t, err)
	fromBlob, err := AsBlob(from.Value)
	require.NoError(t, err)
	assert.Equal(t, sub[:], fromBlob)
	created, err := rec.OptField("created_at_time")
	require.NoError(t, err)
	createdN, err := AsUint64(created.Value)
	require.NoError(t, err)
	assert.Equal(t, createdAt, createdN)

	outer, err := AsVariant(values[1])
	require.NoError(t, err)
	assert.True(t, outer.Is("Err"))
	inner, err := AsVariant(outer.Value)
	require.NoError(t, err)
	assert.True(t, inner.Is("TooOld"))

	vec, err := AsVec(values[2])
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, vec)

	tuple, err := AsRecord(values[3])
	require.NoError(t, err)
	assert.Equal(t, uint8(3), tuple[0])
	assert.Equal(t, int32(-5), tuple[1])
}

func TestTypeTableSharing(t *testing.T) {
	raw, err := Encode(A(OptOf(Nat), None), A(OptOf(Nat), Some(1)))
	require.NoError(t, err)
	// 两个参数共用同一个 opt nat 条目
	assert.Equal(t, "4449444c016e7d0200000001" + "01", hex.EncodeToString(raw))
}

func TestDecodeRecursiveType(t *testing.T) {
	// type list = opt record { 0: nat8; 1: list }
	raw := mustHex(t, "4449444c026e016c02007b0100" + "0100" + "0101" + "010200")
	values, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, values, 1)

	depth := 0
	cur := values[0]
	for {
		o, err := AsOpt(cur)
		require.NoError(t, err)
		if !o.Some {
			break
		}
		rec, err := AsRecord(o.Value)
		require.NoError(t, err)
		assert.Equal(t, uint8(depth+1), rec[0])
		cur = rec[1]
		depth++
	}
	assert.Equal(t, 2, depth)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"缺少消息头", "4449444d0000"},
		{"消息截断", "4449444c00017d"},
		{"多余字节", "4449444c00017d2a00"},
		{"非法 bool", "4449444c00017e02"},
		{"类型引用越界", "4449444c016e05010000"},
		{"不透明 func 引用", "4449444c016a000000010000"},
		{"非法操作码", "4449444c017d0000"},
		{"自身无限嵌套的 variant", "4449444c016b0100000100"},
		{"字段未递增", "4449444c016c0201710171010000000000"},
		{"不透明 principal", "4449444c00016800"},
		{"非法 utf8", "4449444c00017101ff"},
		{"无值的 empty", "4449444c00016f"},
		{"无产出的递归", "4449444c016c0100000100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(mustHex(t, tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDecodeService(t *testing.T) {
	// record { home : service {} }
	raw := "4449444c02" +
		"6900" +
		"6c01" + "9f94cba80400" +
		"0101" +
		"010a00000000000000020101"
	values, err := Decode(mustHex(t, raw))
	require.NoError(t, err)
	require.Len(t, values, 1)

	rec, err := AsRecord(values[0])
	require.NoError(t, err)
	home, err := rec.Field("home")
	require.NoError(t, err)
	assert.Equal(t, ledgerID, home)
}

func TestDecodeFuncRejected(t *testing.T) {
	// func () -> () query，值为 (ledger, "time")
	raw := "4449444c016a000001010100" + "01010a00000000000000020101" + "0474696d65"
	_, err := Decode(mustHex(t, raw))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecodeLengthBounds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		// text 长度前缀为 2^40
		{"text 超长", "4449444c000171" + "8080808080a002"},
		// principal 长度前缀远大于剩余字节
		{"principal 超长", "4449444c00016801" + "ffffffff0f"},
		// vec null 长度 2^40，元素不占字节
		{"零宽 vec 超长", "4449444c016d7f0100" + "8080808080a002"},
		// vec nat 长度大于剩余字节
		{"vec 超长", "4449444c016d7d0100" + "0a01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(mustHex(t, tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDecodeIDLMessage(t *testing.T) {
	recordType := idl.NewRecordType(map[string]idl.Type{
		"owner":  new(idl.PrincipalType),
		"amount": new(idl.NatType),
		"memo":   idl.NewOptionalType(idl.NewVectorType(idl.Nat8Type())),
	})
	raw, err := idl.Encode([]idl.Type{recordType}, []any{map[string]any{
		"owner":  principal.Principal{Raw: ledgerID.Bytes()},
		"amount": idl.NewNat(uint64(1_000_000)),
		"memo":   []byte("hello"),
	}})
	require.NoError(t, err)

	values, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, values, 1)
	rec, err := AsRecord(values[0])
	require.NoError(t, err)

	owner, err := rec.Field("owner")
	require.NoError(t, err)
	assert.Equal(t, ledgerID, owner)
	amount, err := rec.Field("amount")
	require.NoError(t, err)
	n, err := AsUint64(amount)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), n)
	memo, err := rec.OptField("memo")
	require.NoError(t, err)
	require.True(t, memo.Some)
	assert.Equal(t, []byte("hello"), memo.Value)
}

func TestLongBlobRoundTrip(t *testing.T) {
	blob := make([]byte, 100)
	for i := range blob {
		blob[i] = byte(i)
	}
	raw, err := Encode(A(Blob, blob))
	require.NoError(t, err)
	values, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, blob, values[0])
}

func TestLabelHash(t *testing.T) {
	for _, id := range []uint32{0, 1, 2, 222, 223, 224, 49_729, 947296307, 1<<32 - 1} {
		assert.Equal(t, id, Hash(label(Field{ID: id})), "id %d", id)
	}
	assert.Equal(t, "owner", label(F("owner", Principal)))
}
