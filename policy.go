package tsgen

import "fmt"

// MethodFilter decides whether a method on a class participates in
// generation. It is called once per declared method during traversal and
// must be a pure predicate: no side effects, safe in any call order.
type MethodFilter func(parent Class, m Method) bool

// AcceptAllMethods is the default MethodFilter.
func AcceptAllMethods(Class, Method) bool { return true }

// DuplicateNameResolver assigns distinct output names to methods sharing a
// name. It receives the colliding methods in declaration order and returns
// one output name per method, in the same order. A nil return means the
// resolver cannot disambiguate; a returned slice that is incomplete or
// contains coinciding names is likewise treated as failed resolution.
//
// What happens on failed resolution is governed by
// Config.EmitDuplicateNames: either all colliding signatures are emitted
// unchanged (deliberately non-compiling TypeScript), or only the first is
// kept and a warning is logged.
type DuplicateNameResolver func(collisions []Method) []string

// UnresolvedDuplicates is the default DuplicateNameResolver. It resolves
// nothing, pushing the decision to Config.EmitDuplicateNames.
func UnresolvedDuplicates([]Method) []string { return nil }

// IndexSuffixResolver disambiguates overloads positionally: the first
// method keeps its name, later ones get a 1-based ordinal suffix, e.g.
// get, get2, get3.
func IndexSuffixResolver(collisions []Method) []string {
	names := make([]string, len(collisions))
	for i, m := range collisions {
		if i == 0 {
			names[i] = m.Name
			continue
		}
		names[i] = fmt.Sprintf("%s%d", m.Name, i+1)
	}
	return names
}

// validResolution reports whether names is a usable resolution for the
// given collision group: full coverage with pairwise-distinct, non-empty
// names.
func validResolution(collisions []Method, names []string) bool {
	if len(names) != len(collisions) {
		return false
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return false
		}
		if _, dup := seen[n]; dup {
			return false
		}
		seen[n] = struct{}{}
	}
	return true
}
