package enumrepl

import (
	"context"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// GremiumRequest is the PUT /gremien payload: full Gremium objects (so the
// non-key Link field can be set) plus replacing directives keyed on the
// composite (name, parlament, wahlperiode) identity.
type GremiumRequest struct {
	Objects   []types.Gremium
	Replacing []ReplacingDirective[types.GremiumKey]
}

func ReplaceGremien(ctx context.Context, tx store.Tx, req GremiumRequest, sink VocabularyNotifier) (Outcome, error) {
	keys := make([]types.GremiumKey, len(req.Objects))
	for i, g := range req.Objects {
		keys[i] = g.Key()
	}
	if err := validateReplacing(len(req.Objects), req.Replacing, keys); err != nil {
		return NotModified, err
	}

	allExist := true
	for _, k := range keys {
		if _, found, err := tx.GremiumIDByKey(ctx, k); err != nil {
			return NotModified, err
		} else if !found {
			allExist = false
			break
		}
	}
	anyReplacedExists := false
	for _, r := range req.Replacing {
		for _, v := range r.Values {
			if _, found, err := tx.GremiumIDByKey(ctx, v); err != nil {
				return NotModified, err
			} else if found {
				anyReplacedExists = true
			}
		}
	}
	if allExist && (len(req.Replacing) == 0 || !anyReplacedExists) {
		return NotModified, nil
	}

	ids := make([]int64, len(req.Objects))
	for i, g := range req.Objects {
		_, existedBefore, err := tx.GremiumIDByKey(ctx, keys[i])
		if err != nil {
			return NotModified, err
		}
		id, err := tx.UpsertGremium(ctx, g)
		if err != nil {
			return NotModified, err
		}
		ids[i] = id
		if !existedBefore && sink != nil {
			sink.NotifyEnumAdded("gremien", g.Name)
		}
	}

	if len(req.Replacing) == 0 {
		return Applied, nil
	}

	var pairs []store.EnumPair
	var oldIDs []int64
	for _, r := range req.Replacing {
		newID := ids[r.ReplacedBy]
		for _, v := range r.Values {
			oldID, found, err := tx.GremiumIDByKey(ctx, v)
			if err != nil {
				return NotModified, err
			}
			if !found || oldID == newID {
				continue
			}
			pairs = append(pairs, store.EnumPair{New: newID, Old: oldID})
			oldIDs = append(oldIDs, oldID)
		}
	}
	if err := tx.GremiumRewriteReferences(ctx, pairs); err != nil {
		return NotModified, err
	}
	if err := tx.GremiumDelete(ctx, oldIDs); err != nil {
		return NotModified, err
	}
	return Applied, nil
}
