// Package presence_status_enum enumerates manual and visible presence states.
package presence_status_enum

// Manual modes a user can set. INVISIBLE reads as offline to everyone but
// the subject. OFFLINE is never set manually, it is derived from a zero
// connection count.
const (
	ONLINE int8 = iota
	AWAY
	DND
	INVISIBLE
	OFFLINE
)

// Label returns the wire/API name of a status.
func Label(status int8) string {
	switch status {
	case ONLINE:
		return "online"
	case AWAY:
		return "away"
	case DND:
		return "dnd"
	case INVISIBLE:
		return "invisible"
	default:
		return "offline"
	}
}

// FromLabel parses an API status name. Unknown names report ok=false.
func FromLabel(label string) (int8, bool) {
	switch label {
	case "online":
		return ONLINE, true
	case "away":
		return AWAY, true
	case "dnd":
		return DND, true
	case "invisible":
		return INVISIBLE, true
	case "offline":
		return OFFLINE, true
	default:
		return OFFLINE, false
	}
}
