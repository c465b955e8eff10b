package hierarchy

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/cottand/supers/internal/log"
	"github.com/cottand/supers/util"
	"github.com/hashicorp/go-set/v3"
	"golang.org/x/sync/errgroup"
)

const defaultCancelCheckInterval = 64

// Query asks for the substitutor of Super as seen from Derived, given Derived
// is instantiated with Substitutor. A nil Scope means AllScope.
type Query struct {
	Super, Derived *Class
	Scope          Scope
	Substitutor    Substitutor
}

type Status uint8

const (
	// NotInheritor means Derived does not extend Super, directly or not
	NotInheritor Status = iota
	Resolved
	// Inconsistent means several paths from Derived to Super disagree.
	// The Resolution still carries the substitutor of the first path found.
	Inconsistent
)

func (s Status) String() string {
	switch s {
	case NotInheritor:
		return "not an inheritor"
	case Resolved:
		return "resolved"
	case Inconsistent:
		return "inconsistent"
	default:
		return "invalid"
	}
}

type Resolution struct {
	Status      Status
	Substitutor Substitutor
}

// Found is false when Derived is not an inheritor of Super
func (r Resolution) Found() bool {
	return r.Status != NotInheritor
}

// Resolver answers Query values against one Snapshot.
// It is safe for concurrent use.
type Resolver struct {
	snapshot      *Snapshot
	cache         *Cache
	sink          DiagnosticSink
	extraSinks    []DiagnosticSink
	logger        *slog.Logger
	checkInterval int
}

type Option func(*Resolver)

// WithCache makes the resolver use c, which may be shared with other resolvers
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithoutCache disables memoization
func WithoutCache() Option {
	return func(r *Resolver) { r.cache = nil }
}

// WithSink adds a sink notified of hierarchy inconsistencies, on top of logging them
func WithSink(s DiagnosticSink) Option {
	return func(r *Resolver) { r.extraSinks = append(r.extraSinks, s) }
}

// WithCancelCheckInterval sets how many visited classes go by between two
// checks of the context
func WithCancelCheckInterval(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.checkInterval = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func NewResolver(snapshot *Snapshot, opts ...Option) *Resolver {
	r := &Resolver{
		snapshot:      snapshot,
		cache:         NewCache(),
		logger:        log.DefaultLogger.With("section", "resolver"),
		checkInterval: defaultCancelCheckInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sink = append(multiSink{LogSink{Logger: r.logger}}, r.extraSinks...)
	return r
}

func (r *Resolver) Snapshot() *Snapshot {
	return r.snapshot
}

// Cache returns the cache in use, nil if caching is disabled
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// WithSnapshot returns a resolver for a replacement snapshot.
// The shared cache is invalidated.
func (r *Resolver) WithSnapshot(s *Snapshot) *Resolver {
	copied := *r
	copied.snapshot = s
	if copied.cache != nil {
		copied.cache.InvalidateAll()
	}
	return &copied
}

// SuperSubstitutor returns the substitutor of super as seen from derived
// instantiated with derivedSub. ok is false when derived is not an inheritor
// of super within scope.
//
// The only error returned is ctx's, when it is cancelled.
func (r *Resolver) SuperSubstitutor(ctx context.Context, super, derived *Class, scope Scope, derivedSub Substitutor) (sub Substitutor, ok bool, err error) {
	res, err := r.Resolve(ctx, Query{Super: super, Derived: derived, Scope: scope, Substitutor: derivedSub})
	if err != nil {
		return Substitutor{}, false, err
	}
	return res.Substitutor, res.Found(), nil
}

// ClassSubstitutor is like SuperSubstitutor, but candidate may also be derived itself
func (r *Resolver) ClassSubstitutor(ctx context.Context, candidate, derived *Class, scope Scope, derivedSub Substitutor) (Substitutor, bool, error) {
	if candidate == derived {
		return derivedSub, true, nil
	}
	return r.SuperSubstitutor(ctx, candidate, derived, scope, derivedSub)
}

// SuperClassSubstitutor is for callers that already know derived inherits super.
// If no path is found the hierarchy is reported as inconsistent and the
// empty substitutor is returned.
func (r *Resolver) SuperClassSubstitutor(ctx context.Context, super, derived *Class, scope Scope, derivedSub Substitutor) (Substitutor, error) {
	if !super.HasTypeParams() {
		return EmptySubstitutor, nil
	}
	res, err := r.Resolve(ctx, Query{Super: super, Derived: derived, Scope: scope, Substitutor: derivedSub})
	if err != nil {
		return Substitutor{}, err
	}
	if !res.Found() {
		r.sink.ReportHierarchyInconsistency(super, derived)
		return EmptySubstitutor, nil
	}
	return res.Substitutor, nil
}

// Resolve answers q, consulting the cache first.
// Inconsistent hierarchies are reported to the diagnostic sinks on every call.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Resolution, error) {
	if q.Scope == nil {
		q.Scope = AllScope
	}
	if q.Super == q.Derived {
		return Resolution{Status: Resolved, Substitutor: q.Substitutor}, nil
	}
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	var key cacheKey
	if r.cache != nil {
		key = r.cache.key(r.snapshot, q)
		if res, ok := r.cache.get(key, q); ok {
			r.logger.Debug("cache hit", "super", q.Super.Name, "derived", q.Derived.Name)
			r.reportIfInconsistent(q, res)
			return res, nil
		}
	}

	res, err := r.resolve(ctx, q)
	if err != nil {
		r.logger.Debug("resolution cancelled", "super", q.Super.Name, "derived", q.Derived.Name, "err", err)
		return Resolution{}, err
	}
	if r.cache != nil {
		r.cache.put(key, q, res)
	}
	r.reportIfInconsistent(q, res)
	return res, nil
}

func (r *Resolver) reportIfInconsistent(q Query, res Resolution) {
	if res.Status == Inconsistent {
		r.sink.ReportHierarchyInconsistency(q.Super, q.Derived)
	}
}

func (r *Resolver) resolve(ctx context.Context, q Query) (Resolution, error) {
	if !q.Scope.Visible(q.Super) {
		return Resolution{Status: NotInheritor}, nil
	}
	t := &traversal{
		ctx:           ctx,
		query:         q,
		snapshot:      r.snapshot,
		checkInterval: r.checkInterval,
		onPath:        set.New[ClassID](8),
		expanded:      make(map[ClassID][]Substitutor),
	}
	t.visit(q.Derived, q.Substitutor)
	if t.err != nil {
		return Resolution{}, t.err
	}
	r.logger.Debug("resolved",
		"super", q.Super.Name,
		"derived", q.Derived.Name,
		"steps", t.steps,
		"paths", t.paths,
		"cycles", t.cycles,
	)
	switch {
	case t.paths == 0:
		return Resolution{Status: NotInheritor}, nil
	case t.inconsistent:
		return Resolution{Status: Inconsistent, Substitutor: t.found}, nil
	default:
		return Resolution{Status: Resolved, Substitutor: t.found}, nil
	}
}

// traversal is the state of a single depth-first resolution
type traversal struct {
	ctx           context.Context
	query         Query
	snapshot      *Snapshot
	checkInterval int

	// onPath holds the classes on the current path, to stop on malformed cycles
	onPath *set.Set[ClassID]
	// expanded remembers which substitutors a class was already explored with:
	// exploring it again with an equal one cannot find anything new.
	// Explorations that stopped on a cycle are not remembered, since the
	// edge they cut may lead somewhere from a different path.
	expanded map[ClassID][]Substitutor

	steps, paths, cycles int
	found                Substitutor
	inconsistent         bool
	err                  error
}

func (t *traversal) visit(c *Class, sub Substitutor) {
	if t.err != nil {
		return
	}
	t.steps++
	if t.steps%t.checkInterval == 0 {
		if err := t.ctx.Err(); err != nil {
			t.err = err
			return
		}
	}
	if c == t.query.Super {
		t.record(sub)
		return
	}
	if t.onPath.Contains(c.ID) {
		t.cycles++
		return
	}
	for _, seen := range t.expanded[c.ID] {
		if seen.Equal(sub) {
			return
		}
	}

	cycles := t.cycles
	t.onPath.Insert(c.ID)
	for _, edge := range c.Supers {
		edge, ok := visibleEdge(t.snapshot, t.query.Scope, edge)
		if !ok {
			continue
		}
		t.visit(edge.Target, Compose(sub, edge))
	}
	t.onPath.Remove(c.ID)
	if t.cycles == cycles {
		t.expanded[c.ID] = append(t.expanded[c.ID], sub)
	}
}

func (t *traversal) record(sub Substitutor) {
	t.paths++
	if t.paths == 1 {
		t.found = sub
		return
	}
	if !t.found.Equal(sub) {
		t.inconsistent = true
	}
}

// visibleEdge returns e if its target is visible in scope. Otherwise, it
// retargets e to the visible declaration with the same name, if there is one
// with the same number of type parameters.
func visibleEdge(snapshot *Snapshot, scope Scope, e Edge) (Edge, bool) {
	if scope.Visible(e.Target) {
		return e, true
	}
	other, ok := snapshot.Lookup(e.Target.Name, scope)
	if !ok || len(other.TypeParams) != len(e.Target.TypeParams) {
		return Edge{}, false
	}
	args := EmptySubstitutor
	for i, p := range e.Target.TypeParams {
		arg, _ := e.Args.Lookup(p)
		args = args.Put(other.TypeParams[i], arg)
	}
	return Edge{Owner: e.Owner, Target: other, Args: args}, true
}

// ResolveAll answers several queries concurrently.
// Results are in the same order as queries. If ctx is cancelled, so are all the
// pending queries, and the error is returned.
func (r *Resolver) ResolveAll(ctx context.Context, queries []Query) ([]Resolution, error) {
	results := make([]Resolution, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, q := range queries {
		g.Go(func() error {
			res, err := r.Resolve(gctx, q)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Ancestors returns every class c transitively extends within scope,
// in depth-first declaration order and without duplicates.
func (r *Resolver) Ancestors(ctx context.Context, c *Class, scope Scope) ([]*Class, error) {
	if scope == nil {
		scope = AllScope
	}
	visited := set.New[ClassID](8)
	visited.Insert(c.ID)
	var ancestors []*Class

	stack := util.Stack[*Class]{}
	pushSupers := func(of *Class) {
		for edge := range util.Reverse(of.Supers) {
			if e, ok := visibleEdge(r.snapshot, scope, edge); ok {
				stack.Push(e.Target)
			}
		}
	}
	pushSupers(c)
	for steps := 1; ; steps++ {
		if steps%r.checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		next, ok := stack.Pop()
		if !ok {
			return ancestors, nil
		}
		if !visited.Insert(next.ID) {
			continue
		}
		ancestors = append(ancestors, next)
		pushSupers(next)
	}
}

// HasConsistentSupertype checks that every path from derived to base.Class
// agrees with the type arguments of base. It detects, for example,
//
//	interface J extends I<Integer>
//	class C implements I<String>, J
func (r *Resolver) HasConsistentSupertype(ctx context.Context, base *ClassType, derived *Class, scope Scope, derivedSub Substitutor) (bool, error) {
	res, err := r.Resolve(ctx, Query{Super: base.Class, Derived: derived, Scope: scope, Substitutor: derivedSub})
	if err != nil {
		return false, err
	}
	switch res.Status {
	case NotInheritor:
		return true, nil
	case Inconsistent:
		return false, nil
	}
	return res.Substitutor.Equal(SubstitutorFor(base)), nil
}
