package rules

// OrderPair returns the two user ids in canonical order: the
// lexicographically smaller id first. Both sides of a mutual like must
// agree on the ordering so the unordered pair maps to one storage key.
func OrderPair(a, b string) (low, high string) {
	if a > b {
		return b, a
	}
	return a, b
}
