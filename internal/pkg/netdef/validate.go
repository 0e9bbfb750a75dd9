package netdef

import (
	"fmt"

	"golang-netdef/internal/types"
)

// validate checks the resolved registry and reports the first violation,
// walking definitions in declaration order.
func validate(r *Registry) error {
	if len(r.order) != len(r.defs) {
		return newError(ValidationError, nil, "registry holds %d definitions but %d declarations", len(r.defs), len(r.order))
	}

	linked := make(map[string]bool)
	for _, def := range r.Definitions() {
		if def.Vlan != nil && def.Vlan.Link != "" {
			linked[def.Vlan.Link] = true
		}
	}

	seen := make(map[string]bool, len(r.order))
	for _, id := range r.order {
		if seen[id] {
			return newError(ValidationError, r.location(id), "%s: duplicate interface id", id)
		}
		seen[id] = true
		if err := validateDefinition(r, r.defs[id], linked); err != nil {
			return err
		}
	}
	return nil
}

func validateDefinition(r *Registry, def *types.Definition, linked map[string]bool) error {
	loc := r.location(def.ID)
	fail := func(format string, args ...interface{}) error {
		return newError(ValidationError, loc, def.ID+": "+format, args...)
	}

	if err := validateSettings(def); err != nil {
		return fail("%s", err)
	}

	if p := def.Physical; p != nil && p.SetName != "" && p.Match != nil {
		return fail("set-name and match are mutually exclusive")
	}

	if def.Vlan != nil {
		if def.Vlan.ID == nil {
			return fail("missing 'id' property")
		}
		if def.Vlan.Link == "" {
			return fail("missing 'link' property")
		}
		if _, ok := r.defs[def.Vlan.Link]; !ok {
			return newError(ReferenceError, loc, "%s: interface '%s' is not defined", def.ID, def.Vlan.Link)
		}
	}

	if def.MemberOfBridge != "" && def.MemberOfBond != "" {
		return fail("interface is assigned to both bridge %s and bond %s", def.MemberOfBridge, def.MemberOfBond)
	}
	if err := validateMembership(r, def.MemberOfBridge, types.KindBridge); err != nil {
		return fail("%s", err)
	}
	if err := validateMembership(r, def.MemberOfBond, types.KindBond); err != nil {
		return fail("%s", err)
	}

	for _, route := range def.Routes {
		if route.Metric != types.MetricUnspecified && (route.Metric < 0 || route.Metric >= types.MetricUnspecified) {
			return fail("invalid route metric %d for route to %s, must be in 0..%d", route.Metric, route.To, types.MetricUnspecified-1)
		}
	}

	if def.HasVlans != linked[def.ID] {
		return fail("has_vlans is %t but %s used as a vlan link", def.HasVlans, usedOrNot(linked[def.ID]))
	}

	if def.Bond != nil {
		if primary := def.Bond.Parameters.PrimarySlave; primary != "" {
			member, ok := r.defs[primary]
			if !ok || member.MemberOfBond != def.ID {
				return fail("primary slave '%s' is not a member of the bond", primary)
			}
		}
	}
	return nil
}

// validateSettings checks that exactly the settings blocks of the kind are set.
func validateSettings(def *types.Definition) error {
	checks := []struct {
		name  string
		set   bool
		legal bool
	}{
		{"physical device settings", def.Physical != nil, def.Kind.IsPhysical()},
		{"wifi settings", def.Wifi != nil, def.Kind == types.KindWifi},
		{"bridge settings", def.Bridge != nil, def.Kind == types.KindBridge},
		{"bond settings", def.Bond != nil, def.Kind == types.KindBond},
		{"vlan settings", def.Vlan != nil, def.Kind == types.KindVlan},
	}
	for _, c := range checks {
		if c.set != c.legal {
			return fmt.Errorf("%s do not match kind %s", c.name, def.Kind)
		}
	}
	return nil
}

func validateMembership(r *Registry, owner string, want types.Kind) error {
	if owner == "" {
		return nil
	}
	def, ok := r.defs[owner]
	if !ok {
		return fmt.Errorf("interface '%s' is not defined", owner)
	}
	if def.Kind != want {
		return fmt.Errorf("'%s' is a %s, not a %s", owner, def.Kind, want)
	}
	return nil
}

func usedOrNot(used bool) string {
	if used {
		return "it is"
	}
	return "it is not"
}

func (r *Registry) location(id string) *Location {
	if loc, ok := r.declared[id]; ok {
		return &loc
	}
	return nil
}
