// tokens 多标准代币命令行工具
//
// 账户地址编解码、合约标准发现、捕获调用解码与只读查询。
package main

func main() {
	Execute()
}
