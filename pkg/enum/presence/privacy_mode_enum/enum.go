// Package privacy_mode_enum enumerates presence visibility scopes.
package privacy_mode_enum

const (
	EVERYONE int8 = iota
	FRIENDS_ONLY
	SELECTED
	NOBODY
)

// FromLabel parses an API mode name. Unknown names report ok=false.
func FromLabel(label string) (int8, bool) {
	switch label {
	case "everyone":
		return EVERYONE, true
	case "friends":
		return FRIENDS_ONLY, true
	case "selected":
		return SELECTED, true
	case "nobody":
		return NOBODY, true
	default:
		return EVERYONE, false
	}
}

// Label returns the wire/API name of a mode.
func Label(mode int8) string {
	switch mode {
	case FRIENDS_ONLY:
		return "friends"
	case SELECTED:
		return "selected"
	case NOBODY:
		return "nobody"
	default:
		return "everyone"
	}
}
