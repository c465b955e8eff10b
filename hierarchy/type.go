package hierarchy

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Type is a type as it appears in a declaration, either before or after
// substitution. Types are immutable and may be shared freely.
type Type interface {
	String() string
	// Hash is stable across runs for the same snapshot and is used for cache keys.
	// Two equal types always have the same Hash, but the converse does not hold, see Equal.
	Hash() uint64
	isType()
}

var (
	_ Type = PrimitiveType{}
	_ Type = (*ClassType)(nil)
	_ Type = (*TypeVar)(nil)
	_ Type = (*ArrayType)(nil)
)

// PrimitiveType is a non-class type such as int or void
type PrimitiveType struct {
	Name string
}

var (
	Void    = PrimitiveType{Name: "void"}
	Boolean = PrimitiveType{Name: "boolean"}
	Int     = PrimitiveType{Name: "int"}
)

func (PrimitiveType) isType()          {}
func (t PrimitiveType) String() string { return t.Name }
func (t PrimitiveType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("prim:"))
	_, _ = h.Write([]byte(t.Name))
	return h.Sum64()
}

// ClassType is a reference to a class, possibly parameterized.
//
// A ClassType with no Args whose Class declares type parameters is raw.
type ClassType struct {
	Class *Class
	Args  []Type
}

// NewClassType is a convenience constructor for ClassType
func NewClassType(c *Class, args ...Type) *ClassType {
	return &ClassType{Class: c, Args: args}
}

func (*ClassType) isType() {}

// IsRaw is true when the class is generic but no type arguments were given
func (t *ClassType) IsRaw() bool {
	return len(t.Args) == 0 && len(t.Class.TypeParams) > 0
}

func (t *ClassType) String() string {
	if len(t.Args) == 0 {
		return t.Class.Name
	}
	sb := strings.Builder{}
	sb.WriteString(t.Class.Name)
	sb.WriteString("<")
	for i, arg := range t.Args {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(">")
	return sb.String()
}

func (t *ClassType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("class:"))
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(t.Class.ID), 16)))
	for _, arg := range t.Args {
		_, _ = h.Write([]byte(strconv.FormatUint(arg.Hash(), 16)))
		_, _ = h.Write([]byte(","))
	}
	return h.Sum64()
}

// TypeVar is a reference to a type parameter
type TypeVar struct {
	Param *TypeParam
}

func (*TypeVar) isType()          {}
func (t *TypeVar) String() string { return t.Param.Name }
func (t *TypeVar) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("var:"))
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(t.Param.ID), 16)))
	return h.Sum64()
}

// ArrayType is an array of Elem
type ArrayType struct {
	Elem Type
}

func (*ArrayType) isType()          {}
func (t *ArrayType) String() string { return t.Elem.String() + "[]" }
func (t *ArrayType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("array:"))
	_, _ = h.Write([]byte(strconv.FormatUint(t.Elem.Hash(), 16)))
	return h.Sum64()
}

// Equal compares types structurally. Classes and type parameters are compared by identity.
func Equal(this, that Type) bool {
	if this == nil || that == nil {
		return this == nil && that == nil
	}
	switch this := this.(type) {
	case PrimitiveType:
		that, ok := that.(PrimitiveType)
		return ok && this.Name == that.Name
	case *ClassType:
		that, ok := that.(*ClassType)
		if !ok || this.Class != that.Class || len(this.Args) != len(that.Args) {
			return false
		}
		for i := range this.Args {
			if !Equal(this.Args[i], that.Args[i]) {
				return false
			}
		}
		return true
	case *TypeVar:
		that, ok := that.(*TypeVar)
		return ok && this.Param == that.Param
	case *ArrayType:
		that, ok := that.(*ArrayType)
		return ok && Equal(this.Elem, that.Elem)
	}
	panic("unreachable: unknown type " + this.String())
}
