// Package storage 定义存储接口
package storage

import (
	"context"
	"time"
)

// MemoryStore 进程内键值缓存
//
// 注册表用它保存合约的标准发现结果；实现需要并发安全。
type MemoryStore interface {
	// Get 获取缓存值；键不存在或已过期时 exists 为 false
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值，ttl 为 0 表示永不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除指定键，键不存在不报错
	Delete(ctx context.Context, key string) error

	// Clear 清空所有缓存
	Clear(ctx context.Context) error

	// Count 当前条目数（可能包含尚未清理的过期条目）
	Count(ctx context.Context) (int64, error)

	// Close 释放资源
	Close() error
}
