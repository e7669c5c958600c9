package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/weisyn/tokens/internal/core/token/dispatcher"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	queryStandards []string
	queryPrev      string
	queryTake      string
)

// queryHandler 一个只读查询；args 为查询名之后的参数
type queryHandler struct {
	args int
	run  func(ctx context.Context, f *dispatcher.Facade, args []string) (interface{}, error)
}

// queries 查询名 → 处理函数
var queries = map[string]queryHandler{
	"name": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		return f.Name(ctx)
	}},
	"symbol": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		return f.Symbol(ctx)
	}},
	"decimals": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		return f.Decimals(ctx)
	}},
	"fee": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		return f.Fee(ctx)
	}},
	"total-supply": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		return f.TotalSupply(ctx)
	}},
	"logo": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		logo, ok, err := f.Logo(ctx)
		return optional(logo, ok, err)
	}},
	"metadata": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		metadata, err := f.Metadata(ctx)
		if err != nil {
			return nil, err
		}
		return metadata.JSONValue(), nil
	}},
	"balance-of": {args: 1, run: func(ctx context.Context, f *dispatcher.Facade, args []string) (interface{}, error) {
		return f.BalanceOf(ctx, args[0])
	}},
	"owner-of": {args: 1, run: func(ctx context.Context, f *dispatcher.Facade, args []string) (interface{}, error) {
		id, err := parseNat(args[0])
		if err != nil {
			return nil, err
		}
		owner, ok, err := f.OwnerOf(ctx, id)
		return optional(owner, ok, err)
	}},
	"token-metadata": {args: 1, run: func(ctx context.Context, f *dispatcher.Facade, args []string) (interface{}, error) {
		id, err := parseNat(args[0])
		if err != nil {
			return nil, err
		}
		metadata, ok, err := f.TokenMetadata(ctx, id)
		if err != nil || !ok {
			return nil, err
		}
		return metadata.JSONValue(), nil
	}},
	"tokens": {run: func(ctx context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		prev, take, err := pageFlags()
		if err != nil {
			return nil, err
		}
		return f.Tokens(ctx, prev, take)
	}},
	"tokens-of": {args: 1, run: func(ctx context.Context, f *dispatcher.Facade, args []string) (interface{}, error) {
		prev, take, err := pageFlags()
		if err != nil {
			return nil, err
		}
		return f.TokensOf(ctx, args[0], prev, take)
	}},
	"operations": {run: func(_ context.Context, f *dispatcher.Facade, _ []string) (interface{}, error) {
		out := make([]map[string]interface{}, 0)
		for _, op := range f.Operations() {
			adapter, _ := f.RouteOf(op)
			out = append(out, map[string]interface{}{"operation": string(op), "adapter": adapter})
		}
		return out, nil
	}},
}

// queryCmd 只读查询
var queryCmd = &cobra.Command{
	Use:   "query <canister> <query> [arg]",
	Short: "通过合并门面执行只读查询",
	Long: `查询: name | symbol | decimals | fee | total-supply | logo | metadata |
      balance-of <account> | owner-of <id> | token-metadata <id> |
      tokens | tokens-of <account> | operations

示例：
  tokens query ryjl3-tyaaa-aaaaa-aaaba-cai symbol
  tokens query ryjl3-tyaaa-aaaaa-aaaba-cai balance-of aaaaa-aa --standard ICRC-1`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := parseCanister(args[0])
		if err != nil {
			return err
		}
		handler, ok := queries[args[1]]
		if !ok {
			return fmt.Errorf("%w: 未知查询 %q", types.ErrInvalidInput, args[1])
		}
		rest := args[2:]
		if len(rest) != handler.args {
			return fmt.Errorf("%w: 查询 %s 需要 %d 个参数", types.ErrInvalidInput, args[1], handler.args)
		}

		a, err := startApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Stop() }()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		facade, err := a.Facades().Open(ctx, contract, queryStandards...)
		if err != nil {
			return err
		}
		result, err := handler.run(ctx, facade, rest)
		if err != nil {
			return err
		}
		return formatter.Print(result)
	},
}

// optional ok=false 时输出 null
func optional(value string, ok bool, err error) (interface{}, error) {
	if err != nil || !ok {
		return nil, err
	}
	return value, nil
}

func parseNat(text string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(text, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q 不是非负整数", types.ErrInvalidInput, text)
	}
	return n, nil
}

// pageFlags 解析 --prev/--take，未设置为 nil
func pageFlags() (prev, take *big.Int, err error) {
	if queryPrev != "" {
		if prev, err = parseNat(queryPrev); err != nil {
			return nil, nil, err
		}
	}
	if queryTake != "" {
		if take, err = parseNat(queryTake); err != nil {
			return nil, nil, err
		}
	}
	return prev, take, nil
}

func init() {
	queryCmd.Flags().StringSliceVar(&queryStandards, "standard", nil, "显式指定标准，可重复；为空时自动探测")
	queryCmd.Flags().StringVar(&queryPrev, "prev", "", "分页：上一页最后一个 id")
	queryCmd.Flags().StringVar(&queryTake, "take", "", "分页：本页数量")
}
