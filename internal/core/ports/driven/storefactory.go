package driven

// StoreFactory opens the ResultStore for a query key. Distinct query
// keys map to disjoint directories, so concurrent runs for different
// queries never interfere.
type StoreFactory interface {
	Open(queryKey string) (ResultStore, error)
}
