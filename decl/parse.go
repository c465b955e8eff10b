package decl

import (
	"github.com/cottand/supers/hierarchy"
	"github.com/pkg/errors"
)

// ParseType parses a type expression such as "Map<String, List<Integer>>[]"
// and resolves the classes it names among those of s visible in scope.
// Type variables cannot be named outside a declaration.
func ParseType(s *hierarchy.Snapshot, scope hierarchy.Scope, text string) (hierarchy.Type, error) {
	n, err := parseTypeExpr(text)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse type '%s'", text)
	}
	return bindInSnapshot(s, scope, n)
}

func bindInSnapshot(s *hierarchy.Snapshot, scope hierarchy.Scope, n typeNode) (hierarchy.Type, error) {
	var t hierarchy.Type
	if prim, ok := primitives[n.name]; ok {
		if len(n.args) > 0 {
			return nil, errors.Errorf("primitive type %s cannot have type arguments", n.name)
		}
		t = prim
	} else {
		class, ok := s.Lookup(n.name, scope)
		if !ok {
			return nil, errors.Errorf("class %s is not declared", n.name)
		}
		args := make([]hierarchy.Type, len(n.args))
		for i, argNode := range n.args {
			arg, err := bindInSnapshot(s, scope, argNode)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		if len(args) > 0 && len(args) != len(class.TypeParams) {
			return nil, errors.Errorf("%s expects %d type arguments, but %d were given", class.Name, len(class.TypeParams), len(args))
		}
		t = hierarchy.NewClassType(class, args...)
	}
	for range n.dims {
		t = &hierarchy.ArrayType{Elem: t}
	}
	return t, nil
}

// SplitTypeList splits a comma separated list of type expressions,
// ignoring the commas between type arguments
func SplitTypeList(text string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range text {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, text[start:i])
				start = i + 1
			}
		}
	}
	return append(out, text[start:])
}
