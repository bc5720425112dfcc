package merge

import (
	"sort"
	"time"

	"github.com/ltzf/ltzfd/internal/types"
)

func coalesceStr(p, stored *string) *string {
	if p != nil {
		return p
	}
	return stored
}

func coalesceBool(p, stored *bool) *bool {
	if p != nil {
		return p
	}
	return stored
}

func coalesceInt(p, stored *int) *int {
	if p != nil {
		return p
	}
	return stored
}

func coalesceTime(p, stored *time.Time) *time.Time {
	if p != nil {
		return p
	}
	return stored
}

// unionStrings returns the sorted set-union of a and b, deduplicated.
func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// unionVgIdents returns the union of two VgIdent sets, keyed on (typ, value).
func unionVgIdents(a, b []types.VgIdent) []types.VgIdent {
	seen := make(map[types.VgIdent]struct{}, len(a)+len(b))
	var out []types.VgIdent
	for _, ident := range append(append([]types.VgIdent(nil), a...), b...) {
		key := ident.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ident)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Typ != out[j].Typ {
			return out[i].Typ < out[j].Typ
		}
		return out[i].Identifikator < out[j].Identifikator
	})
	return out
}

// unionAutoren returns the union of two Autor sets, keyed on Autor.Key(),
// ordered by organisation per spec.md's S3 scenario.
func unionAutoren(a, b []types.Autor) []types.Autor {
	seen := make(map[types.AutorKey]struct{}, len(a)+len(b))
	var out []types.Autor
	for _, au := range append(append([]types.Autor(nil), a...), b...) {
		key := au.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, au)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Organisation < out[j].Organisation })
	return out
}
