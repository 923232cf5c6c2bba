package synth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dominikbraun/graph"
)

// interpPattern matches the leading "type.name" portion of an interpolation
// string, with an optional data prefix.
var interpPattern = regexp.MustCompile(`\$\{(data\.)?([A-Za-z][A-Za-z0-9_]*)\.([A-Za-z0-9_-]+)\.[^}]+\}`)

// DependencyOrder returns every registered resource and data address sorted so
// that dependencies come before their dependents, inferred from the
// interpolation strings flowing between declarations. Ties break by address so
// the order is stable across runs. Declaring a reference cycle is an error.
func (s *Synthesizer) DependencyOrder() ([]string, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	type entry struct {
		addr string
		walk func(fn func(v any))
	}
	var entries []entry
	registered := make(map[string]struct{})

	for _, addr := range s.doc.ResourceAddresses() {
		typ, name := addr[0], addr[1]
		a := typ + "." + name
		node := s.doc.ResourceNode(typ, name)
		entries = append(entries, entry{addr: a, walk: node.WalkValues})
		registered[a] = struct{}{}
	}
	for _, addr := range s.doc.DataAddresses() {
		typ, name := addr[0], addr[1]
		a := "data." + typ + "." + name
		node := s.doc.DataNode(typ, name)
		entries = append(entries, entry{addr: a, walk: node.WalkValues})
		registered[a] = struct{}{}
	}

	for _, e := range entries {
		if err := g.AddVertex(e.addr); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}
	for _, e := range entries {
		deps := make(map[string]struct{})
		e.walk(func(v any) {
			str, ok := v.(string)
			if !ok {
				return
			}
			for _, m := range interpPattern.FindAllStringSubmatch(str, -1) {
				target := m[2] + "." + m[3]
				if m[1] != "" {
					target = "data." + target
				}
				if _, ok := registered[target]; ok && target != e.addr {
					deps[target] = struct{}{}
				}
			}
		})
		for dep := range deps {
			err := g.AddEdge(dep, e.addr)
			switch {
			case err == nil:
			case errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return nil, fmt.Errorf("reference cycle between %s and %s", dep, e.addr)
			default:
				return nil, err
			}
		}
	}

	return graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
}
