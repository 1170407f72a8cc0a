package factory

import (
	"fmt"

	"github.com/hashicorp/go-factory/internal/graph"
)

// ctorVertex is a defined constructor in the dependency graph. Vertices are
// identified by the key they are registered under, so a redefinition
// replaces the earlier vertex.
type ctorVertex struct {
	Ctor *Constructor
}

func (v *ctorVertex) Hashcode() interface{} { return v.Ctor.Key() }
func (v *ctorVertex) String() string {
	return fmt.Sprintf("%s (%s)", v.Ctor.Key(), v.Ctor.Name())
}

// unsatisfied is an injectable parameter that nothing can provide.
type unsatisfied struct {
	Ctor  *Constructor
	Param *Param
	Err   error
}

func (u *unsatisfied) Error() string {
	return fmt.Sprintf("%s: parameter %s: %s", u.Ctor.Name(), u.Param, u.Err)
}

func (u *unsatisfied) Unwrap() error { return u.Err }

// dependencyGraph builds the graph of defined constructors. An edge from A
// to B means the constructor of A has a parameter that the constructor of B
// builds. Parameters with a default, parameters that are not injectable,
// and parameters served by a singleton or a custom provider add no edge.
//
// Parameters that nothing could build are returned alongside.
func (c *Container) dependencyGraph() (*graph.Graph, []*unsatisfied) {
	var g graph.Graph
	var missing []*unsatisfied

	for _, ctor := range c.injector.constructors() {
		from := g.Add(&ctorVertex{Ctor: ctor})

		for _, p := range ctor.Params() {
			if p.HasDefault || !p.Injectable() {
				continue
			}

			if c.HasSingleton(p.Type) || c.hasCustomProvider(p.Type) {
				continue
			}

			if dep, ok := c.injector.Constructor(p.Type); ok {
				g.AddEdge(from, &ctorVertex{Ctor: dep})
				continue
			}

			if _, err := zeroInstance(p.Type); err != nil {
				missing = append(missing, &unsatisfied{Ctor: ctor, Param: p, Err: err})
			}
		}
	}

	return &g, missing
}
