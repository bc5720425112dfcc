package enumrepl

import (
	"context"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// AutorRequest is the PUT /autoren payload: full Autor objects (so the
// non-key Lobbyregister field can be set) plus replacing directives keyed
// on the composite (person, organisation, fachgebiet) identity.
type AutorRequest struct {
	Objects   []types.Autor
	Replacing []ReplacingDirective[types.AutorKey]
}

func ReplaceAutoren(ctx context.Context, tx store.Tx, req AutorRequest, sink VocabularyNotifier) (Outcome, error) {
	keys := make([]types.AutorKey, len(req.Objects))
	for i, a := range req.Objects {
		keys[i] = a.Key()
	}
	if err := validateReplacing(len(req.Objects), req.Replacing, keys); err != nil {
		return NotModified, err
	}

	allExist := true
	for _, k := range keys {
		if _, found, err := tx.AutorIDByKey(ctx, k); err != nil {
			return NotModified, err
		} else if !found {
			allExist = false
			break
		}
	}
	anyReplacedExists := false
	for _, r := range req.Replacing {
		for _, v := range r.Values {
			if _, found, err := tx.AutorIDByKey(ctx, v); err != nil {
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
	for i, a := range req.Objects {
		_, existedBefore, err := tx.AutorIDByKey(ctx, keys[i])
		if err != nil {
			return NotModified, err
		}
		id, err := tx.UpsertAutor(ctx, a)
		if err != nil {
			return NotModified, err
		}
		ids[i] = id
		if !existedBefore && sink != nil {
			sink.NotifyEnumAdded("autoren", a.Organisation)
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
			oldID, found, err := tx.AutorIDByKey(ctx, v)
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
	if err := tx.AutorRewriteReferences(ctx, pairs); err != nil {
		return NotModified, err
	}
	if err := tx.AutorDelete(ctx, oldIDs); err != nil {
		return NotModified, err
	}
	return Applied, nil
}
