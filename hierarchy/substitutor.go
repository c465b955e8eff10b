package hierarchy

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/benbjohnson/immutable"
)

// binding is what a type parameter is mapped to.
// A nil t means the parameter is erased: the owner is used raw.
type binding struct {
	param *TypeParam
	t     Type
}

// Substitutor is an immutable mapping from type parameters to types.
//
// A parameter can be
//   - bound to a type
//   - erased, meaning the declaration it belongs to is used raw
//   - absent, in which case substituting it leaves it untouched
//
// The zero value is the empty substitutor.
type Substitutor struct {
	bindings *immutable.SortedMap[TypeParamID, binding]
}

// EmptySubstitutor maps nothing, so substituting any type returns it unchanged
var EmptySubstitutor = Substitutor{}

func (s Substitutor) set(p *TypeParam, t Type) Substitutor {
	m := s.bindings
	if m == nil {
		m = immutable.NewSortedMap[TypeParamID, binding](nil)
	}
	return Substitutor{bindings: m.Set(p.ID, binding{param: p, t: t})}
}

// Put returns a new Substitutor where p is bound to t.
// Putting a nil t is the same as Erase.
func (s Substitutor) Put(p *TypeParam, t Type) Substitutor {
	return s.set(p, t)
}

// Erase returns a new Substitutor where p is erased
func (s Substitutor) Erase(p *TypeParam) Substitutor {
	return s.set(p, nil)
}

// PutAll binds params to args positionally.
// Params without a matching arg are erased, extra args are ignored.
func (s Substitutor) PutAll(params []*TypeParam, args []Type) Substitutor {
	for i, p := range params {
		if i < len(args) {
			s = s.set(p, args[i])
		} else {
			s = s.set(p, nil)
		}
	}
	return s
}

// RawSubstitutor erases every type parameter of owner
func RawSubstitutor(owner TypeParamOwner) Substitutor {
	s := EmptySubstitutor
	for _, p := range owner.typeParams() {
		s = s.Erase(p)
	}
	return s
}

// IdentitySubstitutor maps every type parameter of owner to itself.
// It is the substitutor of a declaration seen from inside its own body.
func IdentitySubstitutor(owner TypeParamOwner) Substitutor {
	s := EmptySubstitutor
	for _, p := range owner.typeParams() {
		s = s.Put(p, p.Var())
	}
	return s
}

// SubstitutorFor binds the type parameters of t.Class to t.Args,
// or erases all of them if t is raw
func SubstitutorFor(t *ClassType) Substitutor {
	if t.IsRaw() {
		return RawSubstitutor(t.Class)
	}
	return EmptySubstitutor.PutAll(t.Class.TypeParams, t.Args)
}

// Lookup returns what p is bound to.
// bound is false when p is not in the domain; t is nil when p is erased.
func (s Substitutor) Lookup(p *TypeParam) (t Type, bound bool) {
	if s.bindings == nil {
		return nil, false
	}
	b, ok := s.bindings.Get(p.ID)
	if !ok {
		return nil, false
	}
	return b.t, true
}

// IsErased is true when p is in the domain and maps to nothing
func (s Substitutor) IsErased(p *TypeParam) bool {
	t, bound := s.Lookup(p)
	return bound && t == nil
}

// IsRawFor reports whether any type parameter of owner is erased in s
func (s Substitutor) IsRawFor(owner TypeParamOwner) bool {
	for _, p := range owner.typeParams() {
		if s.IsErased(p) {
			return true
		}
	}
	return false
}

func (s Substitutor) Len() int {
	if s.bindings == nil {
		return 0
	}
	return s.bindings.Len()
}

// Params returns the domain of s, ordered by type parameter identity
func (s Substitutor) Params() []*TypeParam {
	if s.bindings == nil {
		return nil
	}
	params := make([]*TypeParam, 0, s.bindings.Len())
	itr := s.bindings.Iterator()
	for !itr.Done() {
		_, b, _ := itr.Next()
		params = append(params, b.param)
	}
	return params
}

// Substitute applies s to t.
//
// If t depends on an erased type parameter the result is the erasure of t,
// so a List<T> with T erased becomes the raw List.
func (s Substitutor) Substitute(t Type) Type {
	if res, ok := s.substituteStrict(t); ok {
		return res
	}
	return Erasure(t)
}

// substituteStrict applies s to t, and fails when t depends on an erased parameter
func (s Substitutor) substituteStrict(t Type) (Type, bool) {
	if s.Len() == 0 {
		return t, true
	}
	switch t := t.(type) {
	case *TypeVar:
		bound, ok := s.Lookup(t.Param)
		if !ok {
			return t, true
		}
		return bound, bound != nil
	case *ClassType:
		if len(t.Args) == 0 {
			return t, true
		}
		args := make([]Type, len(t.Args))
		for i, arg := range t.Args {
			res, ok := s.substituteStrict(arg)
			if !ok {
				return nil, false
			}
			args[i] = res
		}
		return &ClassType{Class: t.Class, Args: args}, true
	case *ArrayType:
		elem, ok := s.substituteStrict(t.Elem)
		if !ok {
			return nil, false
		}
		return &ArrayType{Elem: elem}, true
	default:
		return t, true
	}
}

// Equal is true when both substitutors have the same domain and every
// parameter resolves to an equal type, where erased is only equal to erased
func (s Substitutor) Equal(other Substitutor) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	itr := s.bindings.Iterator()
	for !itr.Done() {
		_, b, _ := itr.Next()
		t, bound := other.Lookup(b.param)
		if !bound || !Equal(b.t, t) {
			return false
		}
	}
	return true
}

// Hash is the canonical form of s used in cache keys
func (s Substitutor) Hash() uint64 {
	h := fnv.New64a()
	if s.bindings == nil {
		return h.Sum64()
	}
	itr := s.bindings.Iterator()
	for !itr.Done() {
		id, b, _ := itr.Next()
		_, _ = h.Write([]byte(strconv.FormatUint(uint64(id), 16)))
		_, _ = h.Write([]byte("="))
		if b.t == nil {
			_, _ = h.Write([]byte("_"))
		} else {
			_, _ = h.Write([]byte(strconv.FormatUint(b.t.Hash(), 16)))
		}
		_, _ = h.Write([]byte(";"))
	}
	return h.Sum64()
}

func (s Substitutor) String() string {
	sb := strings.Builder{}
	sb.WriteString("{")
	for i, p := range s.Params() {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(" -> ")
		if t, _ := s.Lookup(p); t != nil {
			sb.WriteString(t.String())
		} else {
			sb.WriteString("⊥")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
