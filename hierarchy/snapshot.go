package hierarchy

import (
	"slices"
	"sync/atomic"
)

var lastSnapshotVersion atomic.Uint64

// Snapshot is an immutable set of class declarations.
//
// Every built Snapshot has a distinct Version, which is part of every cache key
// computed against it. Replacing a snapshot therefore never returns stale results.
type Snapshot struct {
	version uint64
	classes []*Class
	byName  map[string][]*Class
}

func (s *Snapshot) Version() uint64 {
	return s.version
}

// Classes returns the declarations in the order they were declared
func (s *Snapshot) Classes() []*Class {
	return slices.Clone(s.classes)
}

// Lookup returns the class called name that is visible in scope.
// When several declarations share the name, scope decides which one wins.
func (s *Snapshot) Lookup(name string, scope Scope) (*Class, bool) {
	var best *Class
	for _, c := range s.byName[name] {
		if !scope.Visible(c) {
			continue
		}
		if best == nil || scope.Compare(c, best) < 0 {
			best = c
		}
	}
	return best, best != nil
}

// Contains is true when c was declared in s
func (s *Snapshot) Contains(c *Class) bool {
	return c == ObjectClass || slices.Contains(s.byName[c.Name], c)
}

// Builder accumulates declarations for a Snapshot.
// Classes can be referenced before their supertypes are declared,
// so hierarchies are built in two steps: declare classes, then connect them.
type Builder struct {
	classes []*Class
	byName  map[string][]*Class
}

func NewBuilder() *Builder {
	return &Builder{
		byName: map[string][]*Class{ObjectClass.Name: {ObjectClass}},
	}
}

// Class declares a new class. Declaring the same name twice creates two
// distinct declarations, for example coming from different origins.
func (b *Builder) Class(name string, kind ClassKind, origin string) *Class {
	c := &Class{
		ID:     ClassID(freshID()),
		Name:   name,
		Kind:   kind,
		Origin: origin,
	}
	b.classes = append(b.classes, c)
	b.byName[name] = append(b.byName[name], c)
	return c
}

// TypeParam adds a type parameter to a class. Bounds can be set on the
// returned TypeParam until Build is called.
func (b *Builder) TypeParam(owner *Class, name string, bounds ...Type) *TypeParam {
	p := &TypeParam{
		ID:     TypeParamID(freshID()),
		Name:   name,
		Owner:  owner,
		Bounds: bounds,
	}
	owner.TypeParams = append(owner.TypeParams, p)
	return p
}

// MethodTypeParam adds a type parameter to a generic method
func (b *Builder) MethodTypeParam(owner *Method, name string, bounds ...Type) *TypeParam {
	p := &TypeParam{
		ID:     TypeParamID(freshID()),
		Name:   name,
		Owner:  owner,
		Bounds: bounds,
	}
	owner.TypeParams = append(owner.TypeParams, p)
	return p
}

// Extends declares that owner extends or implements super
func (b *Builder) Extends(owner *Class, super *ClassType) Edge {
	e := NewEdge(owner, super)
	owner.Supers = append(owner.Supers, e)
	return e
}

// Method declares a method on owner returning void
func (b *Builder) Method(owner *Class, name string, params ...Type) *Method {
	m := &Method{
		Name:   name,
		Owner:  owner,
		Params: params,
		Return: Void,
	}
	owner.Methods = append(owner.Methods, m)
	return m
}

// Constructor declares a constructor on owner
func (b *Builder) Constructor(owner *Class, params ...Type) *Method {
	m := b.Method(owner, owner.Name, params...)
	m.Constructor = true
	return m
}

// Lookup finds a class declared so far, preferring the first declaration
func (b *Builder) Lookup(name string) (*Class, bool) {
	cs := b.byName[name]
	if len(cs) == 0 {
		return nil, false
	}
	return cs[0], true
}

// Build freezes the declarations into a new Snapshot.
// The Builder must not be used afterwards.
func (b *Builder) Build() *Snapshot {
	s := &Snapshot{
		version: lastSnapshotVersion.Add(1),
		classes: b.classes,
		byName:  b.byName,
	}
	b.classes = nil
	b.byName = nil
	return s
}
