package favorites

// StarState is the state of the favorite toggle next to the group selector.
type StarState int

const (
	// StarDisabled means no group is selected; the toggle does nothing.
	StarDisabled StarState = iota
	// StarEmpty means the selected group is not a favorite.
	StarEmpty
	// StarFilled means the selected group is a favorite.
	StarFilled
)

func (s StarState) String() string {
	switch s {
	case StarEmpty:
		return "☆"
	case StarFilled:
		return "★"
	default:
		return "-"
	}
}

// StarFor returns the toggle state for the selected group.
func StarFor(selected string, favs Set) StarState {
	switch {
	case selected == "":
		return StarDisabled
	case favs.Contains(selected):
		return StarFilled
	default:
		return StarEmpty
	}
}
