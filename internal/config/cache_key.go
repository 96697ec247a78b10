package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the cache key for an admin's active session
func (r *CacheKeyStruct) AdminSessionKey(adminID string) string {
	return fmt.Sprintf("admin:%s:session", adminID)
}

var CacheKey = NewCacheKeyStruct()
