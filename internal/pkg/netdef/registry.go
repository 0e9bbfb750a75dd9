package netdef

import (
	"golang-netdef/internal/types"
)

// RefKind is the kind of a reference from one interface to another.
type RefKind int

const (
	RefVlanLink RefKind = iota + 1
	RefBridgeMember
	RefBondMember
)

func (k RefKind) String() string {
	switch k {
	case RefVlanLink:
		return "vlan link"
	case RefBridgeMember:
		return "bridge member"
	case RefBondMember:
		return "bond member"
	}
	return "reference"
}

// DeferredReference is a reference recorded while a document was ingested.
// Bound is set when the target already existed at that time; every reference
// is checked again when the registry is finalized.
type DeferredReference struct {
	Owner    string
	Kind     RefKind
	Target   string
	Location Location
	Bound    bool
}

// Registry holds every interface definition keyed by id.
//
// Definitions returned by a finalized registry must be treated as read-only.
type Registry struct {
	defs          map[string]*types.Definition
	order         []string
	declared      map[string]Location
	refs          []DeferredReference
	globalBackend *types.Backend
}

func newRegistry() *Registry {
	return &Registry{
		defs:     make(map[string]*types.Definition),
		declared: make(map[string]Location),
	}
}

// clone returns a deep copy used to stage changes.
func (r *Registry) clone() *Registry {
	c := &Registry{
		defs:     make(map[string]*types.Definition, len(r.defs)),
		order:    append([]string(nil), r.order...),
		declared: make(map[string]Location, len(r.declared)),
		refs:     append([]DeferredReference(nil), r.refs...),
	}
	for id, def := range r.defs {
		c.defs[id] = def.Clone()
	}
	for id, loc := range r.declared {
		c.declared[id] = loc
	}
	if r.globalBackend != nil {
		b := *r.globalBackend
		c.globalBackend = &b
	}
	return c
}

func (r *Registry) add(def *types.Definition, loc Location) {
	r.defs[def.ID] = def
	r.order = append(r.order, def.ID)
	r.declared[def.ID] = loc
}

// Get returns the definition with the given id.
func (r *Registry) Get(id string) (*types.Definition, bool) {
	def, ok := r.defs[id]
	return def, ok
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Definitions returns all definitions in the order they were first declared.
func (r *Registry) Definitions() []*types.Definition {
	out := make([]*types.Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// DeclaredAt returns where the definition was first declared.
func (r *Registry) DeclaredAt(id string) (Location, bool) {
	loc, ok := r.declared[id]
	return loc, ok
}

// Pending returns the references whose target did not exist yet when they
// were recorded.
func (r *Registry) Pending() []DeferredReference {
	var out []DeferredReference
	for _, ref := range r.refs {
		if !ref.Bound {
			out = append(out, ref)
		}
	}
	return out
}

// GlobalBackend returns the explicitly configured global backend.
func (r *Registry) GlobalBackend() (types.Backend, bool) {
	if r.globalBackend == nil {
		return "", false
	}
	return *r.globalBackend, true
}

// Link returns the parent of a vlan.
func (r *Registry) Link(id string) (*types.Definition, bool) {
	def, ok := r.defs[id]
	if !ok || def.Vlan == nil || def.Vlan.Link == "" {
		return nil, false
	}
	return r.Get(def.Vlan.Link)
}

// Members returns the members of a bridge or bond in declaration order.
func (r *Registry) Members(id string) []*types.Definition {
	var out []*types.Definition
	for _, def := range r.Definitions() {
		if def.MemberOfBridge == id || def.MemberOfBond == id {
			out = append(out, def)
		}
	}
	return out
}

// recordReference stores a reference and binds it right away if its target
// is already known. A vlan has a single link, so a newer link reference
// replaces the older one.
func (r *Registry) recordReference(ref DeferredReference) {
	if ref.Kind == RefVlanLink {
		kept := r.refs[:0]
		for _, old := range r.refs {
			if old.Kind == RefVlanLink && old.Owner == ref.Owner {
				continue
			}
			kept = append(kept, old)
		}
		r.refs = kept
	}
	if target, ok := r.defs[ref.Target]; ok && eagerBind(r.defs[ref.Owner], target, ref.Kind) {
		ref.Bound = true
	}
	r.refs = append(r.refs, ref)
}

// eagerBind applies a reference when that cannot conflict with an existing
// assignment. Conflicts are reported when the registry is finalized.
func eagerBind(owner, target *types.Definition, kind RefKind) bool {
	if owner == nil || owner == target {
		return false
	}
	switch kind {
	case RefVlanLink:
		target.HasVlans = true
	case RefBridgeMember:
		if target.MemberOfBridge != "" && target.MemberOfBridge != owner.ID {
			return false
		}
		target.MemberOfBridge = owner.ID
	case RefBondMember:
		if target.MemberOfBond != "" && target.MemberOfBond != owner.ID {
			return false
		}
		target.MemberOfBond = owner.ID
	}
	return true
}
