package candid

import "github.com/aviate-labs/agent-go/candid/idl"

// Hash 字段名哈希：h = h*223 + c（模 2^32）
func Hash(name string) uint32 {
	return uint32(idl.Hash(name).Uint64())
}
