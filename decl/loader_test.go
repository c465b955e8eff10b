package decl

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/cottand/supers/hierarchy"
	"github.com/cottand/supers/hierarchy/hierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, s *hierarchy.Snapshot, name string) *hierarchy.Class {
	t.Helper()
	c, ok := s.Lookup(name, hierarchy.AllScope)
	require.True(t, ok, "class %s not found", name)
	return c
}

func TestLoadCollections(t *testing.T) {
	snapshot, errs, err := LoadFile("testdata/collections.yaml")
	require.NoError(t, err)
	assert.Empty(t, errs.Errors(), "unexpected errors: %v", errs.Errors())

	collection := mustLookup(t, snapshot, "Collection")
	names := mustLookup(t, snapshot, "Names")
	str := mustLookup(t, snapshot, "String")
	assert.Equal(t, "lib", collection.Origin)
	assert.Equal(t, "app", names.Origin)
	assert.Equal(t, hierarchy.KindInterface, collection.Kind)

	r := hierarchy.NewResolver(snapshot)
	sub, ok, err := r.SuperSubstitutor(context.Background(), collection, names, nil, hierarchy.EmptySubstitutor)
	require.NoError(t, err)
	require.True(t, ok)
	e, _ := sub.Lookup(collection.TypeParams[0])
	assert.True(t, hierarchy.Equal(hierarchy.NewClassType(str), e), "expected String, got %s", sub)

	// ArrayList reaches List both directly and through AbstractList, consistently
	list := mustLookup(t, snapshot, "List")
	res, err := r.Resolve(context.Background(), hierarchy.Query{Super: list, Derived: names})
	require.NoError(t, err)
	assert.Equal(t, hierarchy.Resolved, res.Status)
}

func TestLoadMethods(t *testing.T) {
	snapshot, _, err := LoadFile("testdata/collections.yaml")
	require.NoError(t, err)

	list := mustLookup(t, snapshot, "List")
	toArray := list.MethodsNamed("toArray")
	require.Len(t, toArray, 1)
	require.Len(t, toArray[0].TypeParams, 1)
	assert.Equal(t, "A[]", toArray[0].Params[0].String())
	assert.Equal(t, "A[]", toArray[0].Return.String())
	get := list.MethodsNamed("get")[0]
	assert.True(t, hierarchy.Equal(hierarchy.Int, get.Params[0]))
	assert.True(t, hierarchy.Equal(list.TypeParams[0].Var(), get.Return))

	arrayList := mustLookup(t, snapshot, "ArrayList")
	ctors := arrayList.MethodsNamed("ArrayList")
	require.Len(t, ctors, 2)
	assert.True(t, ctors[0].Constructor)
	assert.Empty(t, ctors[0].Params)
	assert.Len(t, ctors[1].Params, 1)

	// Names.add overrides Collection.add
	names := mustLookup(t, snapshot, "Names")
	r := hierarchy.NewResolver(snapshot)
	supers, err := r.FindSuperMethods(context.Background(), names.MethodsNamed("add")[0], nil)
	require.NoError(t, err)
	require.Len(t, supers, 1)
	assert.Equal(t, "Collection", supers[0].Method.Owner.Name)

	accessors := hierarchy.NewAccessorChain().Accessors(names, hierarchy.EmptySubstitutor)
	properties := make([]string, len(accessors))
	for i, a := range accessors {
		properties[i] = a.Property
	}
	assert.Equal(t, []string{"first", "sorted"}, properties)
}

func TestLoadBoundsAndRawTypes(t *testing.T) {
	snapshot, _, err := LoadFile("testdata/collections.yaml")
	require.NoError(t, err)
	r := hierarchy.NewResolver(snapshot)
	ctx := context.Background()

	sorted := mustLookup(t, snapshot, "Sorted")
	bound := sorted.TypeParams[0]
	require.Len(t, bound.Bounds, 1)
	assert.Equal(t, "Comparable<T>", bound.Bounds[0].String())
	assert.Equal(t, "Comparable", hierarchy.Erasure(bound.Var()).String())

	legacy := mustLookup(t, snapshot, "Legacy")
	collection := mustLookup(t, snapshot, "Collection")
	sub, ok, err := r.SuperSubstitutor(ctx, collection, legacy, nil, hierarchy.EmptySubstitutor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sub.IsRawFor(collection))

	supers, err := r.FindSuperMethods(ctx, legacy.MethodsNamed("addAll")[0], nil)
	require.NoError(t, err)
	require.Len(t, supers, 1)
	assert.True(t, supers[0].Signature.Raw)
}

func TestLoadBroken(t *testing.T) {
	snapshot, errs, err := LoadFile("testdata/broken.yaml")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.True(t, errs.HasError())

	var codes []hierr.ErrCode
	for _, e := range errs.Errors() {
		codes = append(codes, e.Code())
	}
	assert.Equal(t, []hierr.ErrCode{
		hierr.DuplicateTypeParam,
		hierr.DuplicateClass,
		hierr.UnknownType,
		hierr.TypeArgCount,
		hierr.TypeSyntax,
		hierr.HierarchyCycle,
	}, codes)

	byCode := func(code hierr.ErrCode) hierr.DeclError {
		i := slices.IndexFunc(errs.Errors(), func(e hierr.DeclError) bool { return e.Code() == code })
		require.GreaterOrEqual(t, i, 0)
		return errs.Errors()[i]
	}
	assert.Equal(t, hierr.Position{File: "testdata/broken.yaml", Line: 4, Column: 21}, byCode(hierr.DuplicateTypeParam).At())
	assert.Equal(t, hierr.Position{File: "testdata/broken.yaml", Line: 8, Column: 5}, byCode(hierr.DuplicateClass).At())
	assert.Equal(t, 5, byCode(hierr.UnknownType).At().Line)
	assert.Contains(t, byCode(hierr.UnknownType).Error(), "Missing")
	assert.Equal(t, 7, byCode(hierr.TypeSyntax).At().Line)
	assert.True(t, byCode(hierr.HierarchyCycle).IsWarning())
	assert.Contains(t, byCode(hierr.HierarchyCycle).Error(), "C -> D -> C")

	// well-formed parts are still usable: B extends a raw A
	a := mustLookup(t, snapshot, "A")
	b := mustLookup(t, snapshot, "B")
	require.Len(t, b.Supers, 1)
	assert.Same(t, a, b.Supers[0].Target)
	assert.True(t, b.Supers[0].IsRaw())

	c := mustLookup(t, snapshot, "C")
	d := mustLookup(t, snapshot, "D")
	res, err := hierarchy.NewResolver(snapshot).Resolve(context.Background(), hierarchy.Query{Super: d, Derived: c})
	require.NoError(t, err)
	assert.Equal(t, hierarchy.Resolved, res.Status)
}

func TestLoadOrigins(t *testing.T) {
	docs := `
origin: lib
classes:
  - name: Base
    typeParams: [T]
---
origin: other
classes:
  - name: Base
    typeParams: [T]
  - name: Child
    extends: ["Base<Child>"]
---
origin: app
classes:
  - name: Leaf
    origin: other
    extends: ["Base<Leaf>"]
`
	snapshot, errs, err := Load(strings.NewReader(docs), "inline")
	require.NoError(t, err)
	assert.False(t, errs.HasError())

	child := mustLookup(t, snapshot, "Child")
	leaf := mustLookup(t, snapshot, "Leaf")
	assert.Equal(t, "other", leaf.Origin)
	assert.Equal(t, "other", child.Supers[0].Target.Origin, "same origin declarations are preferred")
	assert.Equal(t, "other", leaf.Supers[0].Target.Origin)

	base, ok := snapshot.Lookup("Base", hierarchy.NewOriginScope("lib"))
	require.True(t, ok)
	assert.Equal(t, "lib", base.Origin)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, _, err := Load(strings.NewReader("classes: [: :"), "inline")
	assert.Error(t, err)

	_, _, err = Load(strings.NewReader("classes:\n  - name: A\n    extends:\n      - {name: B}\n"), "inline")
	assert.ErrorContains(t, err, "expected a type expression")

	_, _, err = LoadFile("testdata/does-not-exist.yaml")
	assert.ErrorContains(t, err, "could not open declarations file")
}

func TestLoadTypeSyntaxColumn(t *testing.T) {
	_, errs, err := Load(strings.NewReader("classes:\n  - name: A\n    extends: [\"Foo Bar\"]\n"), "inline")
	require.NoError(t, err)
	require.Len(t, errs.Errors(), 1)
	e := errs.Errors()[0]
	assert.Equal(t, hierr.TypeSyntax, e.Code())
	// the quote is at column 15, Bar 4 characters later
	assert.Equal(t, hierr.Position{File: "inline", Line: 3, Column: 19}, e.At())
}
