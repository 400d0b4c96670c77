package rangeval

// Tribool is the answer to a comparison between ranges.
// Only DefinitelyTrue may be relied upon to transform a program
type Tribool int8

const (
	Indeterminate Tribool = iota
	DefinitelyTrue
	DefinitelyFalse
)

func (b Tribool) String() string {
	switch b {
	case DefinitelyTrue:
		return "true"
	case DefinitelyFalse:
		return "false"
	default:
		return "unknown"
	}
}

func (b Tribool) Not() Tribool {
	switch b {
	case DefinitelyTrue:
		return DefinitelyFalse
	case DefinitelyFalse:
		return DefinitelyTrue
	default:
		return Indeterminate
	}
}

// LessThan is the signed comparison a < b for every value in a and every value in b
func LessThan(a, b Range) Tribool {
	if !a.known || !b.known {
		return Indeterminate
	}
	if a.hi < b.lo {
		return DefinitelyTrue
	}
	if a.lo >= b.hi {
		return DefinitelyFalse
	}
	return Indeterminate
}

// GreaterOrEqual is the signed comparison a >= b for every value in a and every value in b
func GreaterOrEqual(a, b Range) Tribool {
	return LessThan(a, b).Not()
}
