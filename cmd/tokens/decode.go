package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	decodeMethod    string
	decodeArgs      string
	decodeEncoding  string
	decodeStandards []string
)

// decodeCallCmd 解码捕获的原始调用
var decodeCallCmd = &cobra.Command{
	Use:   "decode-call <canister>",
	Short: "把原始方法调用解码为规范调用描述",
	Long: `按固定顺序尝试已绑定适配器的解码器，输出 {type, args}。

未指定 --standard 时先探测合约支持的标准（需要网络）。

示例：
  tokens decode-call ryjl3-tyaaa-aaaaa-aaaba-cai --standard ICRC-1 \
    --method icrc1_transfer --args 4449444c...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := parseCanister(args[0])
		if err != nil {
			return err
		}
		encoding, err := types.ParseEncoding(decodeEncoding)
		if err != nil {
			return err
		}
		raw, err := decodeHex(decodeArgs)
		if err != nil {
			return fmt.Errorf("%w: --args 不是十六进制: %v", types.ErrInvalidInput, err)
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
		facade, err := a.Facades().Open(ctx, contract, decodeStandards...)
		if err != nil {
			return err
		}
		call, err := facade.DecodeCall(decodeMethod, raw, encoding)
		if err != nil {
			return err
		}
		if call == nil {
			return fmt.Errorf("没有适配器能解码 %s (%s)", decodeMethod, encoding)
		}
		return formatter.Print(call)
	},
}

func init() {
	decodeCallCmd.Flags().StringVar(&decodeMethod, "method", "", "方法名")
	decodeCallCmd.Flags().StringVar(&decodeArgs, "args", "", "原始参数（十六进制）")
	decodeCallCmd.Flags().StringVar(&decodeEncoding, "encoding", string(types.EncodingCandid), "参数编码: candid|cbor")
	decodeCallCmd.Flags().StringSliceVar(&decodeStandards, "standard", nil, "显式指定标准，可重复；为空时自动探测")
	_ = decodeCallCmd.MarkFlagRequired("method")
}
