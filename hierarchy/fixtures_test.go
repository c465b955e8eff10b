package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// lib declares the usual library classes tests build hierarchies on
type lib struct {
	b                 *Builder
	String, Integer   *Class
	List, Set         *Class
	ListElem, SetElem *TypeParam
	StringT, IntegerT *ClassType
}

func newLib() *lib {
	b := NewBuilder()
	l := &lib{b: b}
	l.String = b.Class("String", KindClass, "lib")
	l.Integer = b.Class("Integer", KindClass, "lib")
	l.List = b.Class("List", KindInterface, "lib")
	l.ListElem = b.TypeParam(l.List, "E")
	l.Set = b.Class("Set", KindInterface, "lib")
	l.SetElem = b.TypeParam(l.Set, "E")
	l.StringT = NewClassType(l.String)
	l.IntegerT = NewClassType(l.Integer)
	return l
}

func (l *lib) listOf(t Type) *ClassType {
	return NewClassType(l.List, t)
}

func (l *lib) setOf(t Type) *ClassType {
	return NewClassType(l.Set, t)
}

// generic declares a class with the given type parameter names
func (l *lib) generic(name string, kind ClassKind, params ...string) (*Class, []*TypeParam) {
	c := l.b.Class(name, kind, "app")
	tps := make([]*TypeParam, len(params))
	for i, p := range params {
		tps[i] = l.b.TypeParam(c, p)
	}
	return c, tps
}

// flakyCtx reports being cancelled after its Err was called `after` times
type flakyCtx struct {
	context.Context
	calls, after int
}

func (c *flakyCtx) Err() error {
	c.calls++
	if c.calls > c.after {
		return context.Canceled
	}
	return nil
}

func assertSubstitutes(t *testing.T, sub Substitutor, p *TypeParam, expected Type) {
	t.Helper()
	got, bound := sub.Lookup(p)
	if !assert.True(t, bound, "expected %s to be bound in %s", p, sub) {
		return
	}
	if expected == nil {
		assert.Nil(t, got, "expected %s to be erased in %s", p, sub)
		return
	}
	assert.True(t, Equal(expected, got), "expected %s -> %s, got %s", p, expected, sub)
}
