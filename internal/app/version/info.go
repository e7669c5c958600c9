// Package version provides version information for the application.
package version

import (
	"fmt"
	"runtime"
	"time"
)

// 构建时注入的变量，通过ldflags设置
var (
	Version   = "v0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown" // RFC3339
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersion 获取版本号
func GetVersion() string {
	return Version
}

// GetBuildInfo 获取完整构建信息
func GetBuildInfo() *BuildInfo {
	buildTime := BuildTime
	if parsed, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		buildTime = parsed.UTC().Format("2006-01-02 15:04:05 MST")
	}
	return &BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Fields 以键值形式返回构建信息，供表格输出
func (b *BuildInfo) Fields() map[string]interface{} {
	return map[string]interface{}{
		"version":    b.Version,
		"commit":     b.Commit,
		"build_time": b.BuildTime,
		"go_version": b.GoVersion,
		"platform":   b.Platform,
	}
}
