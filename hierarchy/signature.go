package hierarchy

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// MethodSignature is a method declaration after substitution, as seen from a
// particular instantiation of its owner. It is what override and hiding checks compare.
type MethodSignature struct {
	Name           string
	ParameterTypes []Type
	// TypeParameters are the method's own type parameters, empty when Raw
	TypeParameters []*TypeParam
	// Raw is true when the owner of the method is used raw, in which case
	// parameter types depending on the owner's type parameters are erased
	Raw         bool
	Constructor bool
	Substitutor Substitutor
}

// FromDeclaration substitutes m's parameter types with sub.
//
// If sub erases any type parameter of m's owner the signature is raw: the
// method's own type parameters are erased too, and every parameter type
// referring to an erased parameter becomes its erasure.
func FromDeclaration(m *Method, sub Substitutor) MethodSignature {
	raw := m.Owner != nil && sub.IsRawFor(m.Owner)
	typeParams := m.TypeParams
	if raw {
		for _, p := range m.TypeParams {
			sub = sub.Erase(p)
		}
		typeParams = nil
	}
	params := make([]Type, len(m.Params))
	for i, p := range m.Params {
		params[i] = sub.Substitute(p)
	}
	return MethodSignature{
		Name:           m.Name,
		ParameterTypes: params,
		TypeParameters: typeParams,
		Raw:            raw,
		Constructor:    m.Constructor,
		Substitutor:    sub,
	}
}

// Equal reports whether s and other override one another.
//
// Constructors never equal methods. Otherwise the names and arity must match
// and parameter types must be equal, after mapping the method type
// parameters of other onto those of s. Aligned type parameters must have the
// same bounds. A raw signature equals any other
// with the same parameter erasures, and a non-generic signature equals a
// generic one when its parameter types are the erasures of the generic ones.
func (s MethodSignature) Equal(other MethodSignature) bool {
	if !s.sameShape(other) {
		return false
	}
	if s.Raw || other.Raw {
		return s.erasuresEqual(other)
	}
	if len(s.TypeParameters) != len(other.TypeParameters) {
		// a generic method is overridden by a non-generic one declared with its erasure
		switch {
		case len(s.TypeParameters) == 0:
			return s.isErasureOf(other)
		case len(other.TypeParameters) == 0:
			return other.isErasureOf(s)
		}
		return false
	}
	aligned := EmptySubstitutor
	for i, p := range other.TypeParameters {
		aligned = aligned.Put(p, s.TypeParameters[i].Var())
	}
	for i, p := range s.TypeParameters {
		if !s.sameBounds(p, other, other.TypeParameters[i], aligned) {
			return false
		}
	}
	for i, t := range s.ParameterTypes {
		if !Equal(t, aligned.Substitute(other.ParameterTypes[i])) {
			return false
		}
	}
	return true
}

// sameBounds compares the bounds of p with those of q, declared in other and
// renamed by aligned. No bounds means Object.
func (s MethodSignature) sameBounds(p *TypeParam, other MethodSignature, q *TypeParam, aligned Substitutor) bool {
	ours, theirs := boundsOf(p), boundsOf(q)
	if len(ours) != len(theirs) {
		return false
	}
	for k, b := range ours {
		if !Equal(s.Substitutor.Substitute(b), aligned.Substitute(other.Substitutor.Substitute(theirs[k]))) {
			return false
		}
	}
	return true
}

func boundsOf(p *TypeParam) []Type {
	if len(p.Bounds) == 0 {
		return []Type{ObjectType}
	}
	return p.Bounds
}

// EqualErasure compares the erasures of the parameter types only
func (s MethodSignature) EqualErasure(other MethodSignature) bool {
	return s.sameShape(other) && s.erasuresEqual(other)
}

func (s MethodSignature) sameShape(other MethodSignature) bool {
	return s.Constructor == other.Constructor &&
		s.Name == other.Name &&
		len(s.ParameterTypes) == len(other.ParameterTypes)
}

func (s MethodSignature) erasuresEqual(other MethodSignature) bool {
	for i, t := range s.ParameterTypes {
		if !Equal(Erasure(t), Erasure(other.ParameterTypes[i])) {
			return false
		}
	}
	return true
}

// isErasureOf is true when the parameter types of s are those of generic, erased
func (s MethodSignature) isErasureOf(generic MethodSignature) bool {
	for i, t := range generic.ParameterTypes {
		if !Equal(s.ParameterTypes[i], Erasure(t)) {
			return false
		}
	}
	return true
}

// Hash only depends on the erasure of s, so signatures with equal erasures
// have equal hashes
func (s MethodSignature) Hash() uint64 {
	h := fnv.New64a()
	if s.Constructor {
		_, _ = h.Write([]byte("<init>"))
	}
	_, _ = h.Write([]byte(s.Name))
	for _, t := range s.ParameterTypes {
		_, _ = h.Write([]byte(strconv.FormatUint(Erasure(t).Hash(), 16)))
		_, _ = h.Write([]byte(","))
	}
	return h.Sum64()
}

func (s MethodSignature) String() string {
	sb := strings.Builder{}
	if len(s.TypeParameters) > 0 {
		sb.WriteString("<")
		for i, p := range s.TypeParameters {
			if i != 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Name)
		}
		sb.WriteString("> ")
	}
	sb.WriteString(s.Name)
	sb.WriteString("(")
	for i, t := range s.ParameterTypes {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	sb.WriteString(")")
	if s.Raw {
		sb.WriteString(" [raw]")
	}
	return sb.String()
}
