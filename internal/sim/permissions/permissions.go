package permissions

import (
	"fmt"
	"sort"
	"strings"
)

// Registry tracks registered permission keys and per-player grants.
// Grants for keys nobody registered are refused.
type Registry struct {
	registered map[string]string // key -> owner
	grants     map[string]map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		registered: map[string]string{},
		grants:     map[string]map[string]bool{},
	}
}

func normalize(key string) string { return strings.ToLower(strings.TrimSpace(key)) }

// Register declares key on behalf of owner. Re-registering by the same owner is a no-op.
func (r *Registry) Register(key, owner string) error {
	key = normalize(key)
	if key == "" {
		return fmt.Errorf("empty permission key")
	}
	if prev, ok := r.registered[key]; ok && prev != owner {
		return fmt.Errorf("permission %q already registered by %s", key, prev)
	}
	r.registered[key] = owner
	return nil
}

func (r *Registry) Registered(key string) bool {
	_, ok := r.registered[normalize(key)]
	return ok
}

func (r *Registry) Grant(playerID, key string) error {
	key = normalize(key)
	if !r.Registered(key) {
		return fmt.Errorf("permission %q is not registered", key)
	}
	m := r.grants[playerID]
	if m == nil {
		m = map[string]bool{}
		r.grants[playerID] = m
	}
	m[key] = true
	return nil
}

func (r *Registry) Revoke(playerID, key string) {
	m := r.grants[playerID]
	if m == nil {
		return
	}
	delete(m, normalize(key))
	if len(m) == 0 {
		delete(r.grants, playerID)
	}
}

// Has reports whether playerID holds key. Unregistered keys are never held.
func (r *Registry) Has(playerID, key string) bool {
	key = normalize(key)
	if !r.Registered(key) {
		return false
	}
	return r.grants[playerID][key]
}

// Granted lists the keys playerID holds, sorted.
func (r *Registry) Granted(playerID string) []string {
	m := r.grants[playerID]
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
