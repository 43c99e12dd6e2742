package model

// PairKey canonicalizes an unordered user pair into "low:high". Both
// Friendship rows and FriendRequest rows are keyed this way, so at most one
// row per pair can exist regardless of which side acted.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// OrderPair returns the pair in canonical (low, high) order.
func OrderPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
