// Package matcher evaluates the match selectors of physical definitions
// against the links present on the system.
package matcher

import (
	"fmt"
	"path"
	"strings"

	"golang-netdef/internal/pkg/logging"
	"golang-netdef/internal/port"
	"golang-netdef/internal/types"
)

// Result lists the system links selected by one definition.
type Result struct {
	Definition *types.Definition
	Links      []port.Link
}

// Matcher selects system links for physical definitions.
type Matcher struct {
	links port.LinkManager
}

// NewMatcher creates a matcher reading links from the given LinkManager.
func NewMatcher(links port.LinkManager) *Matcher {
	return &Matcher{links: links}
}

// Match returns one result per physical definition, in the order given.
// Virtual definitions are skipped.
func (m *Matcher) Match(defs []*types.Definition) ([]Result, error) {
	links, err := m.links.ListLinks()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	var results []Result
	for _, def := range defs {
		if !def.Kind.IsPhysical() {
			continue
		}
		r := Result{Definition: def}
		for _, link := range links {
			if Selects(def, link) {
				r.Links = append(r.Links, link)
			}
		}
		logging.WithComponentAndInterface("matcher", def.ID).
			WithField("links", len(r.Links)).Debug("Matched definition")
		results = append(results, r)
	}
	return results, nil
}

// Selects reports whether def applies to link. Without a match selector a
// definition applies to the link named like its id. With a selector every
// configured field must match; name and driver accept shell globs and the
// MAC address is compared case-insensitively.
func Selects(def *types.Definition, link port.Link) bool {
	if def.Physical == nil {
		return false
	}
	sel := def.Physical.Match
	if sel == nil {
		return link.Name == def.ID
	}
	if sel.Name != "" && !glob(sel.Name, link.Name) {
		return false
	}
	if sel.Driver != "" && !glob(sel.Driver, link.Driver) {
		return false
	}
	if sel.MACAddress != "" && !strings.EqualFold(sel.MACAddress, link.MACAddress) {
		return false
	}
	return true
}

func glob(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
