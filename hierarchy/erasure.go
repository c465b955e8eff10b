package hierarchy

// Erasure strips all generic information from t.
//
// Class types become raw, type variables become the erasure of their first
// bound (or ObjectType if unbounded), and arrays erase their element.
func Erasure(t Type) Type {
	return erasure(t, nil)
}

// erasure keeps track of the type parameters being erased, so that
// malformed self-bounded declarations like <T extends T> terminate
func erasure(t Type, visiting []*TypeParam) Type {
	switch t := t.(type) {
	case *ClassType:
		if len(t.Args) == 0 {
			return t
		}
		return &ClassType{Class: t.Class}
	case *TypeVar:
		for _, v := range visiting {
			if v == t.Param {
				return ObjectType
			}
		}
		if len(t.Param.Bounds) == 0 {
			return ObjectType
		}
		return erasure(t.Param.Bounds[0], append(visiting, t.Param))
	case *ArrayType:
		return &ArrayType{Elem: erasure(t.Elem, visiting)}
	default:
		return t
	}
}
