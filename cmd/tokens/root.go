package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weisyn/tokens/client/core/output"
	"github.com/weisyn/tokens/internal/app"
	"github.com/weisyn/tokens/internal/app/version"
	"github.com/weisyn/tokens/internal/config"
	"github.com/weisyn/tokens/pkg/types"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigFile   string   // 配置文件
	Endpoints    []string // 覆盖配置中的网关地址
	OutputFormat string   // 输出格式
	LogLevel     string   // 日志级别
	Silent       bool     // 静默模式
}

var (
	globalFlags GlobalFlags
	formatter   *output.Formatter
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:     "tokens",
	Short:   "多标准代币命令行工具",
	Version: version.GetVersion(),
	Long: `tokens - 用统一接口访问互联网计算机上的多种代币标准

支持 ICRC-1/2/4/7/10、DIP-20、DIP-721 v2、EXT：
- 账户地址的文本形式与哈希形式编解码
- 探测合约实现了哪些标准
- 把捕获的原始调用（candid 或 cbor 编码）解码为规范调用描述
- 只读查询（名称、符号、余额、条目等）`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(globalFlags.OutputFormat)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, cmd.OutOrStdout())
		formatter.SetLogWriter(cmd.ErrOrStderr())
		formatter.SetSilent(globalFlags.Silent)
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if formatter != nil {
			formatter.PrintError(err)
		} else {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "配置文件 (JSON，也可用环境变量 "+app.ConfigPathEnv+")")
	rootCmd.PersistentFlags().StringSliceVar(&globalFlags.Endpoints, "endpoint", nil, "网关地址，可重复，覆盖配置文件")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "json", "输出格式: json|pretty|table|text")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "日志级别: debug|info|warn|error")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出错误)")

	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(standardsCmd)
	rootCmd.AddCommand(decodeCallCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(versionCmd)
}

// startApp 按全局标志启动应用
func startApp() (app.App, error) {
	path := globalFlags.ConfigFile
	if path == "" {
		path = os.Getenv(app.ConfigPathEnv)
	}
	appConfig := &types.AppConfig{}
	if path != "" {
		loaded, err := config.LoadAppConfig(path)
		if err != nil {
			return nil, err
		}
		appConfig = loaded
	}
	applyFlagOverrides(appConfig)
	return app.Start(app.WithAppConfig(appConfig))
}

// applyFlagOverrides 命令行标志覆盖配置文件
func applyFlagOverrides(appConfig *types.AppConfig) {
	if len(globalFlags.Endpoints) > 0 {
		if appConfig.Tokens == nil {
			appConfig.Tokens = &types.UserTokensConfig{}
		}
		appConfig.Tokens.Endpoints = globalFlags.Endpoints
	}
	if globalFlags.LogLevel != "" {
		if appConfig.Log == nil {
			appConfig.Log = &types.UserLogConfig{}
		}
		level := globalFlags.LogLevel
		appConfig.Log.Level = &level
	}
}

// parseCanister 解析合约身份文本
func parseCanister(text string) (types.Identity, error) {
	id, err := types.ParseIdentity(strings.TrimSpace(text))
	if err != nil {
		return types.Identity{}, fmt.Errorf("合约地址 %q 无效: %w", text, err)
	}
	return id, nil
}
