package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	accountSubaccount string
	accountIndex      int64
)

// accountCodec 账户地址编解码（无状态，不需要启动应用）
var accountCodec = address.NewAccountService()

// accountCmd 账户地址相关命令
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "账户地址编解码",
	Long:  "在身份+子账户、账户文本形式与旧式哈希形式之间转换",
}

// accountEncodeCmd 编码账户文本形式
var accountEncodeCmd = &cobra.Command{
	Use:   "encode <owner>",
	Short: "编码账户文本形式",
	Long: `把身份与子账户编码为账户文本形式。

示例：
  tokens account encode aaaaa-aa
  tokens account encode aaaaa-aa --subaccount 01
  tokens account encode aaaaa-aa --index 7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := accountFromFlags(args[0])
		if err != nil {
			return err
		}
		var sub []byte
		if account.Subaccount != nil {
			sub = account.Subaccount.Bytes()
		}
		text, err := accountCodec.EncodeAccount(account.Owner, sub)
		if err != nil {
			return err
		}
		return formatter.Print(map[string]interface{}{"account": text})
	},
}

// accountDecodeCmd 解析账户文本形式
var accountDecodeCmd = &cobra.Command{
	Use:   "decode <account>",
	Short: "解析账户文本形式",
	Long:  "解析账户文本形式或纯身份文本；哈希形式无法还原，会被拒绝",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := accountCodec.DecodeAccount(args[0])
		if err != nil {
			return err
		}
		out := map[string]interface{}{
			"owner":      account.Owner.String(),
			"subaccount": nil,
		}
		if account.Subaccount != nil {
			out["subaccount"] = hex.EncodeToString(account.Subaccount.Bytes())
		}
		return formatter.Print(out)
	},
}

// accountHashCmd 计算旧式哈希形式
var accountHashCmd = &cobra.Command{
	Use:   "hash <owner|account>",
	Short: "计算旧式账户哈希形式",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := accountFromFlags(args[0])
		if err != nil {
			return err
		}
		return formatter.Print(map[string]interface{}{"hash": accountCodec.HashAccount(account)})
	},
}

// accountCheckCmd 检查地址形式
var accountCheckCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "检查地址是文本形式、哈希形式还是都不是",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(args[0])
		return formatter.Print(map[string]interface{}{
			"wellFormed": accountCodec.IsWellFormedAccount(text),
			"hashForm":   accountCodec.IsHashForm(text),
		})
	},
}

// accountFromFlags 解析参数中的身份或账户文本，再叠加 --subaccount/--index
func accountFromFlags(text string) (types.Account, error) {
	account, err := accountCodec.DecodeAccount(text)
	if err != nil {
		return types.Account{}, err
	}
	if accountSubaccount != "" && accountIndex >= 0 {
		return types.Account{}, fmt.Errorf("%w: --subaccount 与 --index 不能同时使用", types.ErrInvalidInput)
	}
	if accountSubaccount != "" {
		raw, err := decodeHex(accountSubaccount)
		if err != nil {
			return types.Account{}, fmt.Errorf("%w: 子账户: %v", types.ErrInvalidInput, err)
		}
		if len(raw) > types.SubaccountLength {
			return types.Account{}, fmt.Errorf("%w: 子账户超过 %d 字节", types.ErrInvalidInput, types.SubaccountLength)
		}
		var sub types.Subaccount
		copy(sub[types.SubaccountLength-len(raw):], raw)
		account.Subaccount = &sub
	}
	if accountIndex >= 0 {
		sub := types.SubaccountFromIndex(uint64(accountIndex))
		account.Subaccount = &sub
	}
	return account, nil
}

// decodeHex 接受可选 0x 前缀与奇数长度（左补零）
func decodeHex(text string) ([]byte, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "0x")
	if len(text)%2 == 1 {
		text = "0" + text
	}
	return hex.DecodeString(text)
}

func init() {
	for _, cmd := range []*cobra.Command{accountEncodeCmd, accountHashCmd} {
		cmd.Flags().StringVar(&accountSubaccount, "subaccount", "", "子账户十六进制（不足 32 字节左补零）")
		cmd.Flags().Int64Var(&accountIndex, "index", -1, "按序号派生子账户（大端写入末 8 字节）")
	}

	accountCmd.AddCommand(accountEncodeCmd)
	accountCmd.AddCommand(accountDecodeCmd)
	accountCmd.AddCommand(accountHashCmd)
	accountCmd.AddCommand(accountCheckCmd)
}
