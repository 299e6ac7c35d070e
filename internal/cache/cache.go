// Package cache memoizes formatted resolver answers under a TTL.
//
// Keys are "<resolver-tag>_<lowercased query>". Invalidation is deliberately
// coarse: any committed mutation clears every entry, because any mutation can
// invalidate any cached answer. Mutations are rare relative to queries, so
// the lost hit rate is cheap.
package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL is how long a formatted answer stays valid.
const DefaultTTL = 1200 * time.Second

// AnswerCache is the contract the resolvers program against. Implementations
// must treat their own failures as misses; a broken cache degrades to
// recomputation, never to a failed query.
type AnswerCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, answer string)
	ClearAll(ctx context.Context) error
}

// Key builds the cache key for a resolver tag and query.
func Key(tag, query string) string {
	return tag + "_" + strings.ToLower(strings.TrimSpace(query))
}
