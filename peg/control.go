package peg

// Control is the commit flag shared by the branches of one Alternative.
type Control interface {
	// Cut commits the enclosing alternation to the current branch.
	Cut()
	HasCut() bool
}

type unboundControl struct{}

func (unboundControl) Cut() {}
func (unboundControl) HasCut() bool { return false }

// Unbound is the Control passed to a rule's top term. Cutting outside of
// any Alternative has no effect.
var Unbound Control = unboundControl{}

type simpleControl struct {
	cut bool
}

func (c *simpleControl) Cut() { c.cut = true }
func (c *simpleControl) HasCut() bool { return c.cut }
func (c *simpleControl) reset() { c.cut = false }
