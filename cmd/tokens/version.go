package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/tokens/internal/app/version"
)

// versionCmd 输出构建信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本与构建信息",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return formatter.Print(version.GetBuildInfo().Fields())
	},
}
