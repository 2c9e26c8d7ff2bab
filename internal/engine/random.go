package engine

import (
	"math/rand/v2"
	"sync"
)

// NewSource 使用给定种子创建可复现的随机源
// 返回值非并发安全，每次判定单独创建
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SequenceSource 依次返回预设值，用完后循环
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceSource 创建固定序列随机源
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

// Float64 实现 RandomSource
func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	value := s.values[s.next%len(s.values)]
	s.next++
	return value
}
