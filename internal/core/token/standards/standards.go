// Package standards 汇总各标准适配器，给出固定的注册顺序
//
// 注册顺序即分发器的首个匹配顺序，调整顺序会改变同名操作的路由结果。
package standards

import (
	"github.com/weisyn/tokens/internal/core/token/standards/dip20"
	"github.com/weisyn/tokens/internal/core/token/standards/dip721v2"
	"github.com/weisyn/tokens/internal/core/token/standards/dip721v2approval"
	"github.com/weisyn/tokens/internal/core/token/standards/ext"
	"github.com/weisyn/tokens/internal/core/token/standards/extcommon"
	"github.com/weisyn/tokens/internal/core/token/standards/icrc1"
	"github.com/weisyn/tokens/internal/core/token/standards/icrc10"
	"github.com/weisyn/tokens/internal/core/token/standards/icrc2"
	"github.com/weisyn/tokens/internal/core/token/standards/icrc4"
	"github.com/weisyn/tokens/internal/core/token/standards/icrc7"
	"github.com/weisyn/tokens/pkg/interfaces/token"
)

// Default 全部适配器；directory 为 nil 时 EXT 不查询链下目录
func Default(directory ext.Directory) []token.Adapter {
	return []token.Adapter{
		icrc1.New(),
		icrc2.New(),
		icrc4.New(),
		icrc7.New(),
		icrc10.New(),
		dip20.New(),
		dip721v2.New(),
		dip721v2approval.New(),
		ext.New(ext.WithDirectory(directory)),
		extcommon.New(extcommon.WithDirectory(directory)),
	}
}

// Names 适配器名称，按注册顺序
func Names(adapters []token.Adapter) []string {
	out := make([]string, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, a.Name())
	}
	return out
}
