package user

// Reconciliation is the outcome of merging an incoming collection into an
// existing one.
type Reconciliation[T any] struct {
	// Merged is the resulting collection in incoming order.
	Merged []T
	// Updated holds existing items that matched an incoming one, merged.
	Updated []T
	// Added holds incoming items with no existing match.
	Added []T
	// Removed holds existing items absent from incoming.
	Removed []T
}

// Reconcile matches incoming against existing by key. A matched item is
// produced by merge(existing, incoming); unmatched incoming items are added
// and unmatched existing items are removed. When incoming repeats a key, the
// last occurrence wins and keeps the position of the first.
func Reconcile[T any, K comparable](existing, incoming []T, key func(T) K, merge func(current, incoming T) T) Reconciliation[T] {
	index := make(map[K]int, len(existing))
	for i, item := range existing {
		if _, ok := index[key(item)]; !ok {
			index[key(item)] = i
		}
	}

	order := make([]K, 0, len(incoming))
	latest := make(map[K]T, len(incoming))
	for _, item := range incoming {
		k := key(item)
		if _, ok := latest[k]; !ok {
			order = append(order, k)
		}
		latest[k] = item
	}

	res := Reconciliation[T]{Merged: make([]T, 0, len(order))}
	matched := make(map[int]bool, len(existing))
	for _, k := range order {
		item := latest[k]
		if i, ok := index[k]; ok {
			merged := merge(existing[i], item)
			matched[i] = true
			res.Updated = append(res.Updated, merged)
			res.Merged = append(res.Merged, merged)
			continue
		}
		res.Added = append(res.Added, item)
		res.Merged = append(res.Merged, item)
	}

	for i, item := range existing {
		if !matched[i] {
			res.Removed = append(res.Removed, item)
		}
	}

	return res
}
