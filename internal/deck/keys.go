package deck

// Action is what a key press asks the deck to do.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
)

// Key names follow the DOM KeyboardEvent.key values sent by viewer clients.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeySpace      = " "
)

// ResolveKey maps a key name to a navigation action. ActionNone means the
// key is not a navigation key; anything else must be consumed by the caller
// (preventDefault) to suppress browser scrolling.
func ResolveKey(key string) Action {
	switch key {
	case KeyArrowRight, KeyArrowDown, KeySpace:
		return ActionNext
	case KeyArrowLeft, KeyArrowUp:
		return ActionPrevious
	default:
		return ActionNone
	}
}
