package netdef

import "golang-netdef/internal/types"

// DefaultBackend is used when no document selects a global backend.
const DefaultBackend = types.BackendNetworkd

type kindBackend struct {
	kind    types.Kind
	backend types.Backend
}

// inheritedFallbacks replaces an inherited backend that cannot serve a kind.
// Explicit per-interface renderers are never replaced.
var inheritedFallbacks = map[kindBackend]types.Backend{
	{types.KindWifi, types.BackendNetworkd}: types.BackendNetworkManager,
}

func (r *Registry) effectiveGlobalBackend() types.Backend {
	if r.globalBackend != nil {
		return *r.globalBackend
	}
	return DefaultBackend
}

// effectiveBackend returns the backend that applies def.
func (r *Registry) effectiveBackend(def *types.Definition) types.Backend {
	if def.Backend != nil {
		return *def.Backend
	}
	global := r.effectiveGlobalBackend()
	if fallback, ok := inheritedFallbacks[kindBackend{def.Kind, global}]; ok {
		return fallback
	}
	return global
}

func assignBackends(r *Registry) {
	for _, def := range r.defs {
		def.EffectiveBackend = r.effectiveBackend(def)
	}
}
