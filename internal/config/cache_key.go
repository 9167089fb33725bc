package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamPayloadKey returns the cache key for a published exam's student payload.
func (r *CacheKeyStruct) ExamPayloadKey(examID string) string {
	return fmt.Sprintf("exam:%s:payload", examID)
}

// AttemptMonitorChannel returns the Redis PubSub channel carrying live
// violation events for an exam.
func (r *CacheKeyStruct) AttemptMonitorChannel(examID string) string {
	return fmt.Sprintf("exam:%s:proctoring", examID)
}

var CacheKey = NewCacheKeyStruct()
