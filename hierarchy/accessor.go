package hierarchy

import (
	"strings"
	"unicode"
)

type AccessorKind uint8

const (
	Getter AccessorKind = iota
	// BooleanGetter is an isX() getter
	BooleanGetter
	Setter
)

func (k AccessorKind) String() string {
	switch k {
	case Getter:
		return "getter"
	case BooleanGetter:
		return "boolean getter"
	case Setter:
		return "setter"
	default:
		return "invalid"
	}
}

// Accessor is a method recognised as reading or writing a property
type Accessor struct {
	Method   *Method
	Property string
	Kind     AccessorKind
}

// AccessorDetector recognises accessors by their substituted signature
type AccessorDetector interface {
	DetectAccessor(m *Method, sig MethodSignature) (Accessor, bool)
}

type AccessorDetectorFunc func(m *Method, sig MethodSignature) (Accessor, bool)

func (f AccessorDetectorFunc) DetectAccessor(m *Method, sig MethodSignature) (Accessor, bool) {
	return f(m, sig)
}

// AccessorChain consults its detectors in order, the first match wins.
// The bean conventions detector always runs last.
type AccessorChain struct {
	detectors []AccessorDetector
}

func NewAccessorChain(detectors ...AccessorDetector) *AccessorChain {
	all := make([]AccessorDetector, 0, len(detectors)+1)
	all = append(all, detectors...)
	all = append(all, AccessorDetectorFunc(detectBeanAccessor))
	return &AccessorChain{detectors: all}
}

// Detect substitutes m with sub and asks every detector in turn
func (c *AccessorChain) Detect(m *Method, sub Substitutor) (Accessor, bool) {
	if m.Constructor || m.Static {
		return Accessor{}, false
	}
	sig := FromDeclaration(m, sub)
	for _, d := range c.detectors {
		if a, ok := d.DetectAccessor(m, sig); ok {
			return a, true
		}
	}
	return Accessor{}, false
}

// Accessors returns the accessors declared directly in class, seen through sub
func (c *AccessorChain) Accessors(class *Class, sub Substitutor) []Accessor {
	var found []Accessor
	for _, m := range class.Methods {
		if a, ok := c.Detect(m, sub); ok {
			found = append(found, a)
		}
	}
	return found
}

func detectBeanAccessor(m *Method, sig MethodSignature) (Accessor, bool) {
	returnsVoid := m.Return == nil || Equal(m.Return, Void)
	switch {
	case len(sig.ParameterTypes) == 0 && !returnsVoid && propertyPrefixed(m.Name, "get"):
		return Accessor{Method: m, Property: propertyName(m.Name[3:]), Kind: Getter}, true
	case len(sig.ParameterTypes) == 0 && Equal(m.Return, Boolean) && propertyPrefixed(m.Name, "is"):
		return Accessor{Method: m, Property: propertyName(m.Name[2:]), Kind: BooleanGetter}, true
	case len(sig.ParameterTypes) == 1 && returnsVoid && propertyPrefixed(m.Name, "set"):
		return Accessor{Method: m, Property: propertyName(m.Name[3:]), Kind: Setter}, true
	}
	return Accessor{}, false
}

func propertyPrefixed(name, prefix string) bool {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return false
	}
	return unicode.IsUpper([]rune(rest)[0])
}

// propertyName decapitalises s, unless it starts with an acronym like URL
func propertyName(s string) string {
	runes := []rune(s)
	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
