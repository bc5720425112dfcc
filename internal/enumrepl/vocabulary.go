package enumrepl

import (
	"context"

	"github.com/ltzf/ltzfd/internal/store"
)

// VocabularyNotifier is the hook the "new vocabulary entry" notification
// uses; internal/notify.Sink implements it.
type VocabularyNotifier interface {
	NotifyEnumAdded(vocabulary, value string)
}

// Request is the PUT /enumeration/{name} payload: n new objects plus an
// optional set of replacing directives.
type Request struct {
	Objects   []string
	Replacing []ReplacingDirective[string]
}

// ReplaceVocabulary runs the full E protocol of spec.md section 4.3 against
// one of the bare-string controlled vocabularies.
func ReplaceVocabulary(ctx context.Context, tx store.Tx, flavor store.EnumFlavor, req Request, sink VocabularyNotifier) (Outcome, error) {
	if err := validateReplacing(len(req.Objects), req.Replacing, req.Objects); err != nil {
		return NotModified, err
	}

	allExist := true
	for _, obj := range req.Objects {
		if _, found, err := tx.EnumIDByValue(ctx, flavor, obj); err != nil {
			return NotModified, err
		} else if !found {
			allExist = false
			break
		}
	}
	anyReplacedExists := false
	for _, r := range req.Replacing {
		for _, v := range r.Values {
			if _, found, err := tx.EnumIDByValue(ctx, flavor, v); err != nil {
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
	for i, obj := range req.Objects {
		id, created, err := tx.EnumUpsert(ctx, flavor, obj)
		if err != nil {
			return NotModified, err
		}
		ids[i] = id
		if created && sink != nil {
			sink.NotifyEnumAdded(string(flavor), obj)
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
			oldID, found, err := tx.EnumIDByValue(ctx, flavor, v)
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
	if err := tx.EnumRewriteReferences(ctx, flavor, pairs); err != nil {
		return NotModified, err
	}
	if err := tx.EnumDelete(ctx, flavor, oldIDs); err != nil {
		return NotModified, err
	}
	return Applied, nil
}
