package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawSignatureCompatibility(t *testing.T) {
	// class Base<T> { void m(List<String>) }
	// class Derived extends Base { void m(List); void m(Set<String>) }
	l := newLib()
	base, _ := l.generic("Base", KindClass, "T")
	baseM := l.b.Method(base, "m", l.listOf(l.StringT))
	derived := l.b.Class("Derived", KindClass, "app")
	l.b.Extends(derived, NewClassType(base))
	derivedM := l.b.Method(derived, "m", NewClassType(l.List))
	overload := l.b.Method(derived, "m", l.setOf(l.StringT))
	r := NewResolver(l.b.Build())
	ctx := context.Background()

	superSub, ok, err := r.SuperSubstitutor(ctx, base, derived, nil, EmptySubstitutor)
	require.NoError(t, err)
	require.True(t, ok)

	baseSig := FromDeclaration(baseM, superSub)
	derivedSig := FromDeclaration(derivedM, EmptySubstitutor)
	overloadSig := FromDeclaration(overload, EmptySubstitutor)
	assert.True(t, baseSig.Raw)
	assert.False(t, derivedSig.Raw)

	assert.True(t, derivedSig.Equal(baseSig))
	assert.True(t, baseSig.Equal(derivedSig))
	assert.False(t, overloadSig.Equal(baseSig))
	assert.False(t, baseSig.Equal(overloadSig))

	supers, err := r.FindSuperMethods(ctx, derivedM, nil)
	assert.NoError(t, err)
	require.Len(t, supers, 1)
	assert.Same(t, baseM, supers[0].Method)
	assert.True(t, supers[0].Signature.Raw)

	supers, err = r.FindSuperMethods(ctx, overload, nil)
	assert.NoError(t, err)
	assert.Empty(t, supers)
}

func TestFromDeclaration(t *testing.T) {
	// class Base<T> { <M> void m(T, List<T>, M, int) }
	l := newLib()
	base, params := l.generic("Base", KindClass, "T")
	tp := params[0]
	m := l.b.Method(base, "m")
	mp := l.b.MethodTypeParam(m, "M")
	m.Params = []Type{tp.Var(), l.listOf(tp.Var()), mp.Var(), Int}

	sig := FromDeclaration(m, EmptySubstitutor.Put(tp, l.StringT))
	assert.False(t, sig.Raw)
	assert.Equal(t, []*TypeParam{mp}, sig.TypeParameters)
	assert.Equal(t, "<M> m(String, List<String>, M, int)", sig.String())

	raw := FromDeclaration(m, RawSubstitutor(base))
	assert.True(t, raw.Raw)
	assert.Empty(t, raw.TypeParameters)
	assert.Equal(t, "m(Object, List, Object, int) [raw]", raw.String())

	identity := FromDeclaration(m, IdentitySubstitutor(base))
	assert.Equal(t, "<M> m(T, List<T>, M, int)", identity.String())
}

func TestSignatureEqual(t *testing.T) {
	l := newLib()
	owner := l.b.Class("Owner", KindClass, "app")

	genericMethod := func(name string) *Method {
		m := l.b.Method(owner, "m")
		p := l.b.MethodTypeParam(m, name)
		m.Params = []Type{l.listOf(p.Var())}
		return m
	}
	// <name extends bounds...> void m(name)
	boundedMethod := func(name string, bounds ...Type) *Method {
		m := l.b.Method(owner, "m")
		p := l.b.MethodTypeParam(m, name, bounds...)
		m.Params = []Type{p.Var()}
		return m
	}
	// <name extends List<name>> void m(name)
	recursiveMethod := func(name string) *Method {
		m := l.b.Method(owner, "m")
		p := l.b.MethodTypeParam(m, name)
		p.Bounds = []Type{l.listOf(p.Var())}
		m.Params = []Type{p.Var()}
		return m
	}
	twoParams := l.b.Method(owner, "m")
	a := l.b.MethodTypeParam(twoParams, "A")
	l.b.MethodTypeParam(twoParams, "B")
	twoParams.Params = []Type{l.listOf(a.Var())}

	sig := func(m *Method) MethodSignature { return FromDeclaration(m, EmptySubstitutor) }

	testCases := []struct {
		name        string
		left, right *Method
		equal       bool
		erasure     bool
	}{
		{"same", l.b.Method(owner, "m", l.StringT), l.b.Method(owner, "m", l.StringT), true, true},
		{"different names", l.b.Method(owner, "m", l.StringT), l.b.Method(owner, "n", l.StringT), false, false},
		{"different arity", l.b.Method(owner, "m", l.StringT), l.b.Method(owner, "m", l.StringT, Int), false, false},
		{"different arguments", l.b.Method(owner, "m", l.listOf(l.StringT)), l.b.Method(owner, "m", l.listOf(l.IntegerT)), false, true},
		{"generic methods are aligned", genericMethod("A"), genericMethod("B"), true, true},
		{"generic and erased", genericMethod("A"), l.b.Method(owner, "m", NewClassType(l.List)), true, true},
		{"generic and parameterized", genericMethod("A"), l.b.Method(owner, "m", l.listOf(l.StringT)), false, true},
		{"different type parameter counts", genericMethod("A"), twoParams, false, true},
		{"bounded and unbounded", boundedMethod("A", l.StringT), boundedMethod("B"), false, false},
		{"same bounds", boundedMethod("A", l.StringT), boundedMethod("B", l.StringT), true, true},
		{"different bounds", boundedMethod("A", l.StringT), boundedMethod("B", l.IntegerT), false, false},
		{"Object bound is no bound", boundedMethod("A", ObjectType), boundedMethod("B"), true, true},
		{"recursive bounds are aligned", recursiveMethod("A"), recursiveMethod("B"), true, true},
		{"constructor and method", l.b.Constructor(owner, l.StringT), l.b.Method(owner, "Owner", l.StringT), false, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			left, right := sig(tc.left), sig(tc.right)
			assert.Equal(t, tc.equal, left.Equal(right), "%s vs %s", left, right)
			assert.Equal(t, tc.equal, right.Equal(left), "%s vs %s", right, left)
			assert.Equal(t, tc.erasure, left.EqualErasure(right), "erasures of %s vs %s", left, right)
			if tc.erasure {
				assert.Equal(t, left.Hash(), right.Hash())
			}
			if left.Equal(right) {
				assert.True(t, left.EqualErasure(right), "equal signatures must have equal erasures")
			}
		})
	}
}

func TestFindSuperMethods(t *testing.T) {
	// interface Source<T> { void put(T); static void put(String) }
	// class Base { <A> void each(List<A>) }
	// class Impl extends Base implements Source<String> { void put(String); void put(Integer); <B> void each(List<B>) }
	l := newLib()
	source := l.b.Class("Source", KindInterface, "lib")
	sourcePut := l.b.Method(source, "put", l.b.TypeParam(source, "T").Var())
	static := l.b.Method(source, "put", l.StringT)
	static.Static = true

	base := l.b.Class("Base", KindClass, "app")
	baseEach := l.b.Method(base, "each")
	baseEach.Params = []Type{l.listOf(l.b.MethodTypeParam(baseEach, "A").Var())}

	impl := l.b.Class("Impl", KindClass, "app")
	l.b.Extends(impl, NewClassType(base))
	l.b.Extends(impl, NewClassType(source, l.StringT))
	implPut := l.b.Method(impl, "put", l.StringT)
	implPutInteger := l.b.Method(impl, "put", l.IntegerT)
	implEach := l.b.Method(impl, "each")
	implEach.Params = []Type{l.listOf(l.b.MethodTypeParam(implEach, "B").Var())}
	ctor := l.b.Constructor(impl)
	r := NewResolver(l.b.Build())
	ctx := context.Background()

	supers, err := r.FindSuperMethods(ctx, implPut, nil)
	assert.NoError(t, err)
	require.Len(t, supers, 1)
	assert.Same(t, sourcePut, supers[0].Method)
	assert.Equal(t, "put(String)", supers[0].Signature.String())

	supers, err = r.FindSuperMethods(ctx, implPutInteger, nil)
	assert.NoError(t, err)
	assert.Empty(t, supers)

	supers, err = r.FindSuperMethods(ctx, implEach, nil)
	assert.NoError(t, err)
	require.Len(t, supers, 1)
	assert.Same(t, baseEach, supers[0].Method)

	supers, err = r.FindSuperMethods(ctx, ctor, nil)
	assert.NoError(t, err)
	assert.Empty(t, supers)

	overrides, err := r.Overrides(ctx, implPut, sourcePut, nil)
	assert.NoError(t, err)
	assert.True(t, overrides)

	overrides, err = r.Overrides(ctx, sourcePut, implPut, nil)
	assert.NoError(t, err)
	assert.False(t, overrides)

	overrides, err = r.Overrides(ctx, implPut, static, nil)
	assert.NoError(t, err)
	assert.False(t, overrides)

	// the override is only visible when Source is
	supers, err = r.FindSuperMethods(ctx, implPut, NewOriginScope("app"))
	assert.NoError(t, err)
	assert.Empty(t, supers)
}
