package ext

import (
	"context"
	"math/big"
	"regexp"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

// nameExceptions 索引页给不出正确名称的集合
var nameExceptions = map[string]string{
	"oeee4-qaaaa-aaaak-qaaeq-cai": "Motoko Ghosts",
	"bzsui-sqaaa-aaaah-qce2a-cai": "Poked Bots",
	"dhiaa-ryaaa-aaaae-qabva-cai": "ETH Flower",
}

// indexPageName 索引页首行即集合名称
var indexPageName = regexp.MustCompile(`^(.+?)\n(?:EXT by|---)`)

// HTTPRequestType http_request 的参数
var HTTPRequestType = candid.RecordOf(
	candid.F("url", candid.Text),
	candid.F("method", candid.Text),
	candid.F("body", candid.Blob),
	candid.F("headers", candid.VecOf(candid.TupleOf(candid.Text, candid.Text))),
)

// CollectionReader @ext/common 的集合级读取，ext 与 extcommon 共用
type CollectionReader struct {
	common.Base
	directory Directory
}

// NewCollectionReader 创建集合读取器，directory 可为 nil
func NewCollectionReader(base common.Base, directory Directory) CollectionReader {
	return CollectionReader{Base: base, directory: directory}
}

// Metadata 名称、符号与总量
func (c CollectionReader) Metadata(ctx context.Context) (types.Metadata, error) {
	name, err := c.Name(ctx)
	if err != nil {
		return nil, err
	}
	symbol, err := c.Symbol(ctx)
	if err != nil {
		return nil, err
	}
	total, err := c.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	return types.Metadata{
		{Key: MetadataName, Value: types.TextValue(name)},
		{Key: MetadataSymbol, Value: types.TextValue(symbol)},
		{Key: MetadataTotalSupply, Value: types.NatValue(total)},
	}, nil
}

// Name 依次尝试例外表、索引页首行、链下目录，都没有时为 "Unknown"
func (c CollectionReader) Name(ctx context.Context) (string, error) {
	canister := c.Contract.String()
	if name, ok := nameExceptions[canister]; ok {
		return name, nil
	}

	name, ok, err := c.indexPageName(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		return name, nil
	}

	if col, ok := c.collection(ctx); ok && col.Name != "" {
		return col.Name, nil
	}
	return DefaultName, nil
}

// Symbol 链下目录中的单位，没有时为 "EXT"
func (c CollectionReader) Symbol(ctx context.Context) (string, error) {
	if col, ok := c.collection(ctx); ok && col.Unit != "" {
		return col.Unit, nil
	}
	return DefaultSymbol, nil
}

// Logo 链下目录中的图标
func (c CollectionReader) Logo(ctx context.Context) (string, bool, error) {
	if c.directory == nil {
		return "", false, nil
	}
	logo, ok, err := c.directory.Logo(ctx, c.Contract.String())
	if err != nil {
		return "", false, ctx.Err()
	}
	return logo, ok, nil
}

// TotalSupply getTokens 的条目数
func (c CollectionReader) TotalSupply(ctx context.Context) (*big.Int, error) {
	ids, err := c.tokenIDs(ctx)
	if err != nil {
		return nil, err
	}
	return big.NewInt(int64(len(ids))), nil
}

// tokenIDs getTokens 中的条目编号，保持合约给出的顺序
func (c CollectionReader) tokenIDs(ctx context.Context) ([]*big.Int, error) {
	v, err := c.QueryValue(ctx, "getTokens")
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make([]*big.Int, 0, len(items))
	for _, item := range items {
		pair, err := candid.AsRecord(item)
		if err != nil {
			return nil, err
		}
		id, err := candid.AsNat(pair[0])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// indexPageName GET / 的首行；调用失败或不匹配时 ok=false，只有 ctx 结束才返回错误
func (c CollectionReader) indexPageName(ctx context.Context) (string, bool, error) {
	req := candid.Fields(
		"url", "/",
		"method", "GET",
		"body", []byte{},
		"headers", []any{},
	)
	v, err := c.QueryValue(ctx, "http_request", candid.A(HTTPRequestType, req))
	if err != nil {
		return "", false, ctx.Err()
	}
	f := common.ReadFields(v)
	status := f.Uint64("status_code")
	body := f.Raw("body")
	if f.Err() != nil || status != 200 {
		return "", false, nil
	}
	b, err := candid.AsBlob(body)
	if err != nil {
		return "", false, nil
	}
	m := indexPageName.FindSubmatch(b)
	if m == nil || len(m[1]) == 0 {
		return "", false, nil
	}
	return string(m[1]), true, nil
}

// collection 链下目录查询失败按未找到处理
func (c CollectionReader) collection(ctx context.Context) (Collection, bool) {
	if c.directory == nil {
		return Collection{}, false
	}
	col, ok, err := c.directory.Collection(ctx, c.Contract.String())
	if err != nil {
		return Collection{}, false
	}
	return col, ok
}
