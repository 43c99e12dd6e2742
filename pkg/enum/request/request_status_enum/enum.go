// Package request_status_enum enumerates friend request states.
package request_status_enum

// Status values stored in friend_request.status. PENDING is the only
// non-terminal state; everything else ends the request's lifecycle.
const (
	PENDING int8 = iota
	ACCEPTED
	DECLINED
	CANCELLED
	EXPIRED
)

// IsTerminal reports whether a request can no longer transition.
func IsTerminal(status int8) bool {
	return status != PENDING
}

// Label returns the wire/API name of a status.
func Label(status int8) string {
	switch status {
	case PENDING:
		return "pending"
	case ACCEPTED:
		return "accepted"
	case DECLINED:
		return "declined"
	case CANCELLED:
		return "cancelled"
	default:
		return "expired"
	}
}
