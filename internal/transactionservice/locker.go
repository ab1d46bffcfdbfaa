package transactionservice

import (
	"sort"
	"sync"
)

// keyedLocks provides one exclusive lock per account uid.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{
		locks: make(map[int64]*sync.Mutex),
	}
}

// lock acquires the locks of all given accounts and returns the matching
// unlock function. To avoid deadlocks the locks are always acquired in
// ascending uid order; duplicate uids are collapsed.
func (k *keyedLocks) lock(uids ...int64) (unlock func()) {
	sorted := make([]int64, 0, len(uids))

	for _, uid := range uids {
		seen := false

		for _, s := range sorted {
			if s == uid {
				seen = true
				break
			}
		}

		if !seen {
			sorted = append(sorted, uid)
		}
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	acquired := make([]*sync.Mutex, 0, len(sorted))

	for _, uid := range sorted {
		acquired = append(acquired, k.get(uid))
	}

	for _, mu := range acquired {
		mu.Lock()
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}

func (k *keyedLocks) get(uid int64) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	mu, ok := k.locks[uid]
	if !ok {
		mu = &sync.Mutex{}
		k.locks[uid] = mu
	}

	return mu
}
