// Package conflictresolve implements the conflict-resolution pass of
// spec.md section 4.3: the single algorithm that, given a bulk rewrite of a
// foreign-key column, determines the minimum set of rows to delete so the
// post-rewrite state violates no composite-uniqueness constraint.
//
// internal/store/memstore runs this algorithm as plain Go over its
// in-memory rows; internal/store/sqlstore has no implementation of it. This
// package is the one place the algorithm itself is specified, so any
// backend can be tested against the same behavior.
package conflictresolve

import "sort"

// Row is one row of a referring table, abstracted down to what the pass
// needs: a surrogate id, the serialized identifying_cols tuple (every column
// of the table's composite-unique key except the one being rewritten), and
// the current value of the column being rewritten.
type Row struct {
	SurrogateID int64
	IdentKey    string
	Col         int64
}

// Resolve returns the surrogate ids that must be deleted from rows before
// applying the column rewrite described by pairs (old id -> new id), so the
// rewrite does not violate uniqueness of (identifying_cols, col).
//
// Algorithm:
//  1. Classify every row whose Col appears in pairs (as a key or a value) by
//     (IdentKey, target), where target is pairs[Col] if Col is a key of
//     pairs, else Col itself.
//  2. A class is "in conflict" iff its rows originate from >=2 distinct Col
//     values.
//  3. Within a conflicting class, keep exactly one row -- lowest original
//     Col, then lowest SurrogateID -- and delete the rest.
func Resolve(rows []Row, pairs map[int64]int64) []int64 {
	relevant := make(map[int64]struct{}, len(pairs)*2)
	for old, new := range pairs {
		relevant[old] = struct{}{}
		relevant[new] = struct{}{}
	}

	type classKey struct {
		ident  string
		target int64
	}
	classes := make(map[classKey][]Row)
	for _, r := range rows {
		if _, ok := relevant[r.Col]; !ok {
			continue
		}
		target := r.Col
		if newID, ok := pairs[r.Col]; ok {
			target = newID
		}
		k := classKey{ident: r.IdentKey, target: target}
		classes[k] = append(classes[k], r)
	}

	var toDelete []int64
	for _, members := range classes {
		distinct := make(map[int64]struct{}, len(members))
		for _, m := range members {
			distinct[m.Col] = struct{}{}
		}
		if len(distinct) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].Col != members[j].Col {
				return members[i].Col < members[j].Col
			}
			return members[i].SurrogateID < members[j].SurrogateID
		})
		for _, m := range members[1:] {
			toDelete = append(toDelete, m.SurrogateID)
		}
	}
	return toDelete
}
