package hierarchy

import (
	"context"

	"github.com/cottand/supers/internal/log"
)

var signatureLogger = log.DefaultLogger.With("section", "signature")

// SuperMethod is a method of an ancestor overridden by some method
type SuperMethod struct {
	Method *Method
	// Signature is the one of Method seen from the overriding method's class
	Signature MethodSignature
}

// FindSuperMethods returns the methods declared in the ancestors of m's
// owner (visible in scope) that m overrides. Constructors and static
// methods override nothing.
//
// Ancestors whose substitutor cannot be resolved are skipped.
func (r *Resolver) FindSuperMethods(ctx context.Context, m *Method, scope Scope) ([]SuperMethod, error) {
	if m.Constructor || m.Static || m.Owner == nil {
		return nil, nil
	}
	derived := m.Owner
	derivedSub := IdentitySubstitutor(derived)
	own := FromDeclaration(m, derivedSub)

	ancestors, err := r.Ancestors(ctx, derived, scope)
	if err != nil {
		return nil, err
	}
	var found []SuperMethod
	for _, ancestor := range ancestors {
		candidates := ancestor.MethodsNamed(m.Name)
		if len(candidates) == 0 {
			continue
		}
		sub, ok, err := r.SuperSubstitutor(ctx, ancestor, derived, scope, derivedSub)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, candidate := range candidates {
			if candidate.Constructor || candidate.Static {
				continue
			}
			sig := FromDeclaration(candidate, sub)
			if own.Equal(sig) {
				signatureLogger.Debug("found super method", "method", m, "super", candidate, "signature", sig)
				found = append(found, SuperMethod{Method: candidate, Signature: sig})
			}
		}
	}
	return found, nil
}

// Overrides reports whether sub overrides super, both seen from sub's owner
func (r *Resolver) Overrides(ctx context.Context, sub, super *Method, scope Scope) (bool, error) {
	if sub.Constructor || super.Constructor || sub.Static || super.Static || sub.Name != super.Name {
		return false, nil
	}
	derivedSub := IdentitySubstitutor(sub.Owner)
	superSub, ok, err := r.SuperSubstitutor(ctx, super.Owner, sub.Owner, scope, derivedSub)
	if err != nil || !ok || sub.Owner == super.Owner {
		return false, err
	}
	return FromDeclaration(sub, derivedSub).Equal(FromDeclaration(super, superSub)), nil
}
