package entalloc

import (
	"fmt"
	"math"
)

// Location points at the row holding an entity's components. The values are
// owned by the component storage; this package only stores them.
type Location struct {
	Archetype uint32
	Index     uint32
}

// Pending is the location of an entity that has not been placed yet.
var Pending = Location{Archetype: 0, Index: math.MaxUint32}

// IsPending reports if the location has not been placed. Archetype 0 is
// reserved for unplaced entities, so the index is not consulted.
func (l Location) IsPending() bool { return l.Archetype == 0 }

func (l Location) String() string {
	if l == Pending {
		return "(location pending)"
	}
	return fmt.Sprintf("(location %d:%d)", l.Archetype, l.Index)
}
