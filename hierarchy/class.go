package hierarchy

import (
	"sync/atomic"
)

type ClassID uint64
type TypeParamID uint64

// ids are shared by classes and type parameters so that two declarations
// never get the same identity, even across snapshots
var lastID atomic.Uint64

func freshID() uint64 {
	return lastID.Add(1)
}

type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
)

func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	default:
		return "invalid"
	}
}

// Class is the declaration of a class or interface, independent of any instantiation.
// Two *Class are the same declaration iff they are the same pointer.
//
// Classes are created through a Builder and must not be mutated once the
// owning Snapshot is built.
type Class struct {
	ID   ClassID
	Name string
	Kind ClassKind
	// Origin names where the declaration comes from (a source root, a library...)
	// and is what scopes filter on
	Origin     string
	TypeParams []*TypeParam
	// Supers are the declared extends/implements entries, in declaration order
	Supers  []Edge
	Methods []*Method
}

func (c *Class) String() string {
	return c.Name
}

func (c *Class) HasTypeParams() bool {
	return len(c.TypeParams) > 0
}

// MethodsNamed returns the methods declared directly in c with the given name
func (c *Class) MethodsNamed(name string) []*Method {
	var found []*Method
	for _, m := range c.Methods {
		if m.Name == name {
			found = append(found, m)
		}
	}
	return found
}

// TypeParamOwner is either a *Class or a *Method
type TypeParamOwner interface {
	String() string
	typeParams() []*TypeParam
}

func (c *Class) typeParams() []*TypeParam { return c.TypeParams }

// TypeParam is a type parameter declared by a class or a method.
// Its identity is its pointer (or ID), not its Name: names repeat across scopes.
type TypeParam struct {
	ID    TypeParamID
	Name  string
	Owner TypeParamOwner
	// Bounds are the declared upper bounds, the first one determines the erasure
	Bounds []Type
}

func (p *TypeParam) String() string {
	return p.Name
}

// Var returns the type referring to p
func (p *TypeParam) Var() *TypeVar {
	return &TypeVar{Param: p}
}

// Method is a method or constructor declaration
type Method struct {
	Name        string
	Owner       *Class
	TypeParams  []*TypeParam
	Params      []Type
	Return      Type
	Constructor bool
	Static      bool
}

func (m *Method) typeParams() []*TypeParam { return m.TypeParams }

func (m *Method) String() string {
	if m.Owner == nil {
		return m.Name
	}
	return m.Owner.Name + "." + m.Name
}

// ObjectClass is the implicit root of every hierarchy.
// Unbounded type parameters erase to it.
var ObjectClass = &Class{
	ID:   ClassID(freshID()),
	Name: "Object",
	Kind: KindClass,
}

// ObjectType is the type of ObjectClass
var ObjectType Type = &ClassType{Class: ObjectClass}
