package hierarchy

import "fmt"

// Edge is one declared extends/implements entry of Owner.
//
// Args is a substitutor over the type parameters of Target, whose types are
// expressed in terms of the type parameters of Owner. For
//
//	class Foo<T> extends Bar<List<T>>
//
// the edge from Foo to Bar binds Bar's parameter to List<T>, where T is Foo's.
type Edge struct {
	Owner  *Class
	Target *Class
	Args   Substitutor
}

// NewEdge builds the edge for the supertype reference to, declared in owner
func NewEdge(owner *Class, to *ClassType) Edge {
	return Edge{
		Owner:  owner,
		Target: to.Class,
		Args:   SubstitutorFor(to),
	}
}

// IsRaw is true when the supertype was referenced without type arguments
func (e Edge) IsRaw() bool {
	return e.Args.IsRawFor(e.Target)
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s%s", e.Owner.Name, e.Target.Name, e.Args)
}

// Compose returns the substitutor of edge.Target as seen through edge,
// given outer is the substitutor known at edge.Owner.
//
// Any target parameter whose argument depends on something erased is erased.
// If outer is raw for the owner, every parameter of the target is erased.
func Compose(outer Substitutor, edge Edge) Substitutor {
	if outer.IsRawFor(edge.Owner) {
		return RawSubstitutor(edge.Target)
	}
	res := EmptySubstitutor
	for _, p := range edge.Target.TypeParams {
		arg, bound := edge.Args.Lookup(p)
		if !bound || arg == nil {
			res = res.Erase(p)
			continue
		}
		if t, ok := outer.substituteStrict(arg); ok {
			res = res.Put(p, t)
		} else {
			res = res.Erase(p)
		}
	}
	return res
}
