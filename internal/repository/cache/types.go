package cache

import "time"

// Envelope 支持逻辑过期的数据结构
type Envelope[T any] struct {
	Data      T         `json:"data"`
	ExpireAt  time.Time `json:"expire_at"`  // 逻辑过期时间
	CreatedAt time.Time `json:"created_at"` // 创建时间，用于调试
}

// IsLogicalExpired 检查是否逻辑过期
func (e *Envelope[T]) IsLogicalExpired() bool {
	return time.Now().After(e.ExpireAt)
}

// NewEnvelope 创建带逻辑过期的数据
func NewEnvelope[T any](data T, ttl time.Duration) *Envelope[T] {
	now := time.Now()
	return &Envelope[T]{
		Data:      data,
		ExpireAt:  now.Add(ttl),
		CreatedAt: now,
	}
}
