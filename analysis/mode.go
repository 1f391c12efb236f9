package analysis

import "fmt"

// Mode selects one of the document analysis screens.
type Mode int

const (
	Supervised Mode = iota
	SemiSupervised
	Unsupervised
)

// Modes lists the modes in menu order.
var Modes = []Mode{Supervised, SemiSupervised, Unsupervised}

func (m Mode) String() string {
	switch m {
	case Supervised:
		return "supervised"
	case SemiSupervised:
		return "semi-supervised"
	case Unsupervised:
		return "unsupervised"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a query value to a Mode. Unknown values select Supervised,
// the first menu entry.
func ParseMode(label string) Mode {
	for _, m := range Modes {
		if m.String() == label {
			return m
		}
	}
	return Supervised
}
