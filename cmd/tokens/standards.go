package main

import (
	"context"

	"github.com/spf13/cobra"
)

// standardsCmd 探测合约支持的标准
var standardsCmd = &cobra.Command{
	Use:   "standards <canister>",
	Short: "探测合约实现的代币标准",
	Long: `并发探测所有适配器，列出合约实现的标准及门面可用的操作。

示例：
  tokens standards ryjl3-tyaaa-aaaaa-aaaba-cai -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := parseCanister(args[0])
		if err != nil {
			return err
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
		descriptors := a.Facades().Discover(ctx, contract)
		if len(descriptors) == 0 {
			formatter.PrintWarning("未发现任何已知标准")
		}
		rows := make([]map[string]interface{}, 0, len(descriptors))
		for _, d := range descriptors {
			rows = append(rows, map[string]interface{}{"name": d.Name, "url": d.URL})
		}
		return formatter.Print(rows)
	},
}
