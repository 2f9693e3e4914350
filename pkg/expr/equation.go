package expr

// Relation is the comparison between the two sides of an equation.
type Relation int8

const (
	Eq Relation = iota
	Neq
	Lt
	Lte
	Gt
	Gte
)

// Relations lists the token of each relation, longest first so that a
// scanner can match them greedily.
var Relations = []struct {
	Token string
	Rel   Relation
}{
	{"<=", Lte},
	{">=", Gte},
	{"!=", Neq},
	{"≤", Lte},
	{"≥", Gte},
	{"≠", Neq},
	{"=", Eq},
	{"<", Lt},
	{">", Gt},
}

func (r Relation) String() string {
	switch r {
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	}
	return "="
}

// Mirror returns the relation obtained by multiplying both sides by -1.
func (r Relation) Mirror() Relation {
	switch r {
	case Lt:
		return Gt
	case Lte:
		return Gte
	case Gt:
		return Lt
	case Gte:
		return Lte
	}
	return r
}

// Holds reports whether the relation is satisfied by a comparison result
// c of left against right.
func (r Relation) Holds(c int) bool {
	switch r {
	case Neq:
		return c != 0
	case Lt:
		return c < 0
	case Lte:
		return c <= 0
	case Gt:
		return c > 0
	case Gte:
		return c >= 0
	}
	return c == 0
}

// Equation is left ⋈ right.
type Equation struct {
	Left, Right Component
	Rel         Relation
}

func (e Equation) String() string {
	return e.Left.String() + e.Rel.String() + e.Right.String()
}
