package netdef

import (
	"golang-netdef/internal/pkg/logging"
	"golang-netdef/internal/types"
)

// resolve binds every recorded reference and checks the resulting link and
// membership chains for cycles. Membership and has_vlans are recomputed from
// the references, so bindings made during ingestion are checked again.
func resolve(r *Registry) error {
	logger := logging.WithComponent("netdef")

	for _, def := range r.defs {
		def.HasVlans = false
		def.MemberOfBridge = ""
		def.MemberOfBond = ""
	}

	for i := range r.refs {
		ref := &r.refs[i]
		if err := bind(r, ref); err != nil {
			return err
		}
		if !ref.Bound {
			logger.WithField("interface", ref.Owner).WithField("target", ref.Target).
				Debugf("Resolved deferred %s", ref.Kind)
		}
		ref.Bound = true
	}

	if err := detectCycles(r, RefVlanLink, func(d *types.Definition) []string {
		if d.Vlan == nil || d.Vlan.Link == "" {
			return nil
		}
		return []string{d.Vlan.Link}
	}); err != nil {
		return err
	}

	return detectCycles(r, RefBridgeMember, func(d *types.Definition) []string {
		var next []string
		if d.MemberOfBridge != "" {
			next = append(next, d.MemberOfBridge)
		}
		if d.MemberOfBond != "" {
			next = append(next, d.MemberOfBond)
		}
		return next
	})
}

func bind(r *Registry, ref *DeferredReference) error {
	loc := ref.Location
	owner, ok := r.defs[ref.Owner]
	if !ok {
		return newError(ReferenceError, &loc, "%s: interface is not defined", ref.Owner)
	}
	target, ok := r.defs[ref.Target]
	if !ok {
		return newError(ReferenceError, &loc, "%s: interface '%s' is not defined", ref.Owner, ref.Target)
	}

	switch ref.Kind {
	case RefVlanLink:
		if owner.Kind != types.KindVlan {
			return newError(ReferenceError, &loc, "%s: link is only valid for vlans, not %s", owner.ID, owner.Kind)
		}
		target.HasVlans = true

	case RefBridgeMember, RefBondMember:
		want := types.KindBridge
		if ref.Kind == RefBondMember {
			want = types.KindBond
		}
		if owner.Kind != want {
			return newError(ReferenceError, &loc, "%s: is a %s, members can only be assigned to a %s", owner.ID, owner.Kind, want)
		}
		if target == owner {
			return newError(ReferenceError, &loc, "%s: interface cannot be a member of itself", owner.ID)
		}
		current := &target.MemberOfBridge
		if ref.Kind == RefBondMember {
			current = &target.MemberOfBond
		}
		if *current != "" && *current != owner.ID {
			return newError(ValidationError, &loc, "%s: interface '%s' is already assigned to %s %s",
				owner.ID, target.ID, want, *current)
		}
		*current = owner.ID
	}
	return nil
}

// detectCycles walks the chains formed by next from every definition, in
// declaration order. It uses a depth-first search with temporary and
// permanent marks, so every definition is expanded at most once.
func detectCycles(r *Registry, kind RefKind, next func(*types.Definition) []string) error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return newError(ReferenceError, r.cycleLocation(id, kind), "cycle detected involving interface '%s'", id)
		}
		def, ok := r.defs[id]
		if !ok {
			return nil
		}
		temporary[id] = true
		for _, n := range next(def) {
			if err := visit(n); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range r.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// cycleLocation finds the reference that leaves id along a chain of the
// given kind.
func (r *Registry) cycleLocation(id string, kind RefKind) *Location {
	for _, ref := range r.refs {
		switch {
		case kind == RefVlanLink && ref.Kind == RefVlanLink && ref.Owner == id:
		case kind != RefVlanLink && ref.Kind != RefVlanLink && ref.Target == id:
		default:
			continue
		}
		loc := ref.Location
		return &loc
	}
	if loc, ok := r.declared[id]; ok {
		return &loc
	}
	return nil
}
