package referee

import "time"

// VerdictKind classifies a scoring fault.
type VerdictKind int

const (
	VerdictKickedOut VerdictKind = iota + 1
	VerdictOutFromField
	VerdictOutFromMiddleLine
	VerdictDoubleTouch
)

// String returns the stable name used in storage and logs.
func (k VerdictKind) String() string {
	switch k {
	case VerdictKickedOut:
		return "kicked_out"
	case VerdictOutFromField:
		return "out_from_field"
	case VerdictOutFromMiddleLine:
		return "out_from_middle_line"
	case VerdictDoubleTouch:
		return "double_touch"
	default:
		return "unknown"
	}
}

// ParseVerdictKind is the inverse of VerdictKind.String. Unknown names map to 0.
func ParseVerdictKind(s string) VerdictKind {
	for _, k := range []VerdictKind{VerdictKickedOut, VerdictOutFromField, VerdictOutFromMiddleLine, VerdictDoubleTouch} {
		if k.String() == s {
			return k
		}
	}
	return 0
}

// Verdict records one critical event of the match.
type Verdict struct {
	Seq    int
	Kind   VerdictKind
	Player string // charged player; empty for a mid-line out
	Points int
	At     time.Duration
}
