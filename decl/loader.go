// Package decl loads declaration snapshots from YAML documents.
//
// Declarations are loaded best-effort: problems with individual classes or
// types are collected as hierr.DeclError and the rest of the snapshot is still
// built, so that queries on the well-formed parts keep working.
package decl

import (
	"io"
	"os"
	"slices"

	"github.com/cottand/supers/hierarchy"
	"github.com/cottand/supers/hierarchy/hierr"
	"github.com/cottand/supers/internal/log"
	"github.com/cottand/supers/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var logger = log.DefaultLogger.With("section", "decl")

var primitives = map[string]hierarchy.PrimitiveType{
	"void":    hierarchy.Void,
	"boolean": hierarchy.Boolean,
	"int":     hierarchy.Int,
	"long":    {Name: "long"},
	"short":   {Name: "short"},
	"byte":    {Name: "byte"},
	"char":    {Name: "char"},
	"float":   {Name: "float"},
	"double":  {Name: "double"},
}

// LoadFile reads the declarations in the YAML file at path
func LoadFile(path string) (*hierarchy.Snapshot, *hierr.Errors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not open declarations file")
	}
	defer f.Close()
	return Load(f, path)
}

// Load reads every YAML document in r. file is only used in error positions.
//
// The returned error is non-nil only when r cannot be read or is not valid YAML.
// Problems with the declarations themselves are in the returned *hierr.Errors,
// which can contain warnings even when the snapshot is fine.
func Load(r io.Reader, file string) (*hierarchy.Snapshot, *hierr.Errors, error) {
	var docs []document
	dec := yaml.NewDecoder(r)
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "could not decode document %d of %s", len(docs)+1, file)
		}
		docs = append(docs, doc)
	}

	l := &loader{
		file:    file,
		b:       hierarchy.NewBuilder(),
		errs:    &hierr.Errors{},
		classes: make(map[string][]*hierarchy.Class),
	}
	for _, doc := range docs {
		for _, c := range doc.Classes {
			l.declareClass(c, doc.Origin)
		}
	}
	for _, p := range l.pending {
		l.defineClass(p)
	}
	l.checkCycles()

	snapshot := l.b.Build()
	logger.Debug("loaded declarations", "file", file, "classes", len(l.pending), "version", snapshot.Version(), "errors", l.errs)
	return snapshot, l.errs, nil
}

type loader struct {
	file    string
	b       *hierarchy.Builder
	errs    *hierr.Errors
	classes map[string][]*hierarchy.Class
	pending []pendingClass
}

type pendingClass struct {
	decl   classDecl
	class  *hierarchy.Class
	params map[string]*hierarchy.TypeParam
}

func (l *loader) at(pos position) hierr.Position {
	return hierr.Position{File: l.file, Line: pos.line, Column: pos.column}
}

func (l *loader) declareClass(c classDecl, defaultOrigin string) {
	origin := c.Origin
	if origin == "" {
		origin = defaultOrigin
	}
	for _, existing := range l.classes[c.Name] {
		if existing.Origin == origin {
			l.errs.With(hierr.New(hierr.NewDuplicateClass{Position: l.at(c.pos), Name: c.Name, Origin: origin}))
			return
		}
	}
	kind := hierarchy.KindClass
	if c.Kind == "interface" {
		kind = hierarchy.KindInterface
	}
	class := l.b.Class(c.Name, kind, origin)
	l.classes[c.Name] = append(l.classes[c.Name], class)

	params := make(map[string]*hierarchy.TypeParam, len(c.TypeParams))
	for _, p := range c.TypeParams {
		if _, ok := params[p.Name]; ok {
			l.errs.With(hierr.New(hierr.NewDuplicateTypeParam{Position: l.at(p.pos), Owner: c.Name, Name: p.Name}))
			continue
		}
		params[p.Name] = l.b.TypeParam(class, p.Name)
	}
	l.pending = append(l.pending, pendingClass{decl: c, class: class, params: params})
}

// typeEnv is what type names can refer to at some point of a declaration
type typeEnv struct {
	origin       string
	classParams  map[string]*hierarchy.TypeParam
	methodParams map[string]*hierarchy.TypeParam
}

func (l *loader) defineClass(p pendingClass) {
	env := typeEnv{origin: p.class.Origin, classParams: p.params}
	for _, tp := range p.decl.TypeParams {
		if param, ok := p.params[tp.Name]; ok {
			param.Bounds = l.resolveAll(tp.Bounds, env)
		}
	}

	for _, ext := range p.decl.Extends {
		t, ok := l.resolve(ext, env)
		if !ok {
			continue
		}
		super, ok := t.(*hierarchy.ClassType)
		if !ok {
			l.errs.With(hierr.New(hierr.NewTypeSyntax{Position: l.at(ext.pos), Text: ext.text, Reason: "only classes and interfaces can be extended"}))
			continue
		}
		l.b.Extends(p.class, super)
	}

	for _, md := range p.decl.Methods {
		l.defineMethod(p.class, md, env)
	}
}

func (l *loader) defineMethod(class *hierarchy.Class, md methodDecl, env typeEnv) {
	var m *hierarchy.Method
	if md.Constructor {
		m = l.b.Constructor(class)
	} else {
		m = l.b.Method(class, md.Name)
	}
	m.Static = md.Static

	env.methodParams = make(map[string]*hierarchy.TypeParam, len(md.TypeParams))
	for _, tp := range md.TypeParams {
		if _, ok := env.methodParams[tp.Name]; ok {
			l.errs.With(hierr.New(hierr.NewDuplicateTypeParam{Position: l.at(tp.pos), Owner: m.String(), Name: tp.Name}))
			continue
		}
		env.methodParams[tp.Name] = l.b.MethodTypeParam(m, tp.Name)
	}
	for _, tp := range md.TypeParams {
		if param, ok := env.methodParams[tp.Name]; ok && len(param.Bounds) == 0 {
			param.Bounds = l.resolveAll(tp.Bounds, env)
		}
	}

	m.Params = make([]hierarchy.Type, len(md.Params))
	for i, expr := range md.Params {
		t, ok := l.resolve(expr, env)
		if !ok {
			t = hierarchy.ObjectType
		}
		m.Params[i] = t
	}
	if md.Returns != nil {
		if t, ok := l.resolve(*md.Returns, env); ok {
			m.Return = t
		}
	}
}

func (l *loader) resolveAll(exprs []typeExpr, env typeEnv) []hierarchy.Type {
	var out []hierarchy.Type
	for _, expr := range exprs {
		if t, ok := l.resolve(expr, env); ok {
			out = append(out, t)
		}
	}
	return out
}

// resolve parses and binds expr. It is false only when expr cannot be parsed
// or names an unknown type, other problems are reported and worked around.
func (l *loader) resolve(expr typeExpr, env typeEnv) (hierarchy.Type, bool) {
	n, err := parseTypeExpr(expr.text)
	if err != nil {
		pos := l.at(expr.pos)
		var syntax syntaxError
		if errors.As(err, &syntax) {
			pos.Column += syntax.offset
		}
		l.errs.With(hierr.New(hierr.NewTypeSyntax{Position: pos, Text: expr.text, Reason: err.Error()}))
		return nil, false
	}
	return l.bind(n, expr, env)
}

func (l *loader) bind(n typeNode, expr typeExpr, env typeEnv) (hierarchy.Type, bool) {
	pos := l.at(expr.pos)
	pos.Column += n.offset

	var t hierarchy.Type
	if prim, ok := primitives[n.name]; ok {
		t = prim
	} else if param, ok := env.methodParams[n.name]; ok {
		t = param.Var()
	} else if param, ok := env.classParams[n.name]; ok {
		t = param.Var()
	} else if class, ok := l.lookupClass(n.name, env.origin); ok {
		args := make([]hierarchy.Type, 0, len(n.args))
		for _, argNode := range n.args {
			arg, ok := l.bind(argNode, expr, env)
			if !ok {
				return nil, false
			}
			args = append(args, arg)
		}
		if len(args) > 0 && len(args) != len(class.TypeParams) {
			l.errs.With(hierr.New(hierr.NewTypeArgCount{Position: pos, Class: class.Name, Expected: len(class.TypeParams), Got: len(args)}))
			args = nil
		}
		t = hierarchy.NewClassType(class, args...)
	} else {
		l.errs.With(hierr.New(hierr.NewUnknownType{Position: pos, Name: n.name}))
		return nil, false
	}

	if _, isClass := t.(*hierarchy.ClassType); !isClass && len(n.args) > 0 {
		l.errs.With(hierr.New(hierr.NewTypeArgCount{Position: pos, Class: n.name, Expected: 0, Got: len(n.args)}))
	}
	for range n.dims {
		t = &hierarchy.ArrayType{Elem: t}
	}
	return t, true
}

// lookupClass prefers a declaration from the same origin, then the first one
func (l *loader) lookupClass(name, origin string) (*hierarchy.Class, bool) {
	candidates := l.classes[name]
	for _, c := range candidates {
		if c.Origin == origin {
			return c, true
		}
	}
	if len(candidates) > 0 {
		return candidates[0], true
	}
	if name == hierarchy.ObjectClass.Name {
		return hierarchy.ObjectClass, true
	}
	return nil, false
}

// checkCycles warns about every class that (indirectly) extends itself.
// Such hierarchies are kept: resolution tolerates them.
func (l *loader) checkCycles() {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[*hierarchy.Class]int, len(l.pending))
	var path []*hierarchy.Class
	var visit func(p pendingClass, c *hierarchy.Class)
	visit = func(p pendingClass, c *hierarchy.Class) {
		state[c] = onStack
		path = append(path, c)
		for _, e := range c.Supers {
			switch state[e.Target] {
			case unvisited:
				visit(p, e.Target)
			case onStack:
				cycle := path[slices.Index(path, e.Target):]
				names := slices.Collect(util.MapIter(slices.Values(cycle), (*hierarchy.Class).String))
				names = append(names, e.Target.Name)
				l.errs.With(hierr.New(hierr.NewHierarchyCycle{Position: l.at(p.decl.pos), Classes: names}))
			}
		}
		path = path[:len(path)-1]
		state[c] = done
	}
	for _, p := range l.pending {
		if state[p.class] == unvisited {
			visit(p, p.class)
		}
	}
}
