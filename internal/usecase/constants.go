package usecase

import "time"

// BalanceCacheTTL is how long a computed balance sheet stays cached.
// Any write to a group's history invalidates the entry early.
const BalanceCacheTTL = 5 * time.Minute

// balanceCacheKey is the cache key for a group's balance sheet.
func balanceCacheKey(groupID string) string {
	return "balances:" + groupID
}
