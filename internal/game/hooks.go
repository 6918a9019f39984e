package game

// Hooks let the host veto commands and movement before they run. A nil hook
// allows everything.
type Hooks struct {
	// BeforeCommand returns true to treat the command as a quit request.
	BeforeCommand func(command, args string) bool

	// BeforeMove returns true to block the movement.
	BeforeMove func(player, direction string) bool
}

func (h Hooks) beforeCommand(command, args string) bool {
	if h.BeforeCommand == nil {
		return false
	}
	return h.BeforeCommand(command, args)
}

func (h Hooks) beforeMove(player, direction string) bool {
	if h.BeforeMove == nil {
		return false
	}
	return h.BeforeMove(player, direction)
}
