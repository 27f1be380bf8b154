package schema

// Rel is the cardinality of a relation, seen from one of its sides.
type Rel int

// Relation types.
const (
	Unk Rel = iota // Unknown.
	O2O            // One to one.
	O2M            // One to many. This side holds many related records.
	M2O            // Many to one. This side holds a single related record.
	M2M            // Many to many.
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}

// Unique reports if this side of the relation refers to at most one record.
func (r Rel) Unique() bool { return r == O2O || r == M2O }
