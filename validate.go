package factory

import (
	"github.com/hashicorp/go-multierror"
)

// Validate checks every defined constructor without building anything.
//
// Each injectable parameter that has no default must be satisfiable: by a
// singleton, a custom provider, another defined constructor, or a concrete
// type the default provider can build with no arguments. The graph of
// constructor dependencies must also be acyclic. Arguments supplied at call
// time are not known here, so scalar parameters are never reported.
//
// All problems found are returned together as a *multierror.Error.
func (c *Container) Validate() error {
	g, missing := c.dependencyGraph()
	c.logger.Trace("constructor graph", "constructors", g.Len(), "graph", g.String())

	var result error
	for _, m := range missing {
		result = multierror.Append(result, m)
	}

	if cycle := g.Cycle(); cycle != nil {
		path := make([]TypeKey, len(cycle))
		for i, v := range cycle {
			path[i] = v.(*ctorVertex).Ctor.Key()
		}

		result = multierror.Append(result, &CyclicDependencyError{Path: path})
	}

	return result
}
