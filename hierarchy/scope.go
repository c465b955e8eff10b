package hierarchy

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Scope restricts which declarations are visible to a query
type Scope interface {
	// ID identifies the scope in cache keys. Scopes with the same ID must
	// have the same visibility rules.
	ID() string
	Visible(c *Class) bool
	// Compare orders two visible declarations sharing a qualified name.
	// The lower one is preferred.
	Compare(a, b *Class) int
}

// AllScope sees every declaration, preferring the one declared first
var AllScope Scope = allScope{}

type allScope struct{}

func (allScope) ID() string              { return "all" }
func (allScope) Visible(*Class) bool     { return true }
func (allScope) Compare(a, b *Class) int { return cmp.Compare(a.ID, b.ID) }

// OriginScope sees declarations from a fixed list of origins.
// Declarations without an origin (like ObjectClass) are always visible.
// Earlier origins take precedence over later ones.
type OriginScope struct {
	origins []string
	visible *set.Set[string]
}

func NewOriginScope(origins ...string) *OriginScope {
	return &OriginScope{
		origins: slices.Clone(origins),
		visible: set.From(origins),
	}
}

// ID quotes every origin, so origins containing commas cannot collide
func (s *OriginScope) ID() string {
	quoted := make([]string, len(s.origins))
	for i, origin := range s.origins {
		quoted[i] = strconv.Quote(origin)
	}
	return "origins:" + strings.Join(quoted, ",")
}

func (s *OriginScope) Visible(c *Class) bool {
	return c.Origin == "" || s.visible.Contains(c.Origin)
}

func (s *OriginScope) Compare(a, b *Class) int {
	if byOrigin := cmp.Compare(s.rank(a), s.rank(b)); byOrigin != 0 {
		return byOrigin
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *OriginScope) rank(c *Class) int {
	if c.Origin == "" {
		return -1
	}
	return slices.Index(s.origins, c.Origin)
}
