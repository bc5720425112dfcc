// Package candidate implements the candidate resolver (C) of spec.md
// section 4.1: given an incoming entity, decide whether it is the same
// entity as something already stored. The merge executor (internal/merge)
// drives this package recursively; it never talks to the store directly.
package candidate

import (
	"context"
	"errors"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// Kind is the three-way outcome of a resolution attempt.
type Kind int

const (
	NoMatch Kind = iota
	ExactlyOne
	Ambiguous
)

// Result carries the outcome: ID is valid only when Kind == ExactlyOne, IDs
// only when Kind == Ambiguous.
type Result struct {
	Kind Kind
	ID   int64
	IDs  []int64
}

func fromIDs(ids []int64) Result {
	switch len(ids) {
	case 0:
		return Result{Kind: NoMatch}
	case 1:
		return Result{Kind: ExactlyOne, ID: ids[0]}
	default:
		return Result{Kind: Ambiguous, IDs: ids}
	}
}

// Vorgang resolves an incoming Vorgang against the store: an api_id match
// wins outright; otherwise a shared (wahlperiode, typ, identifier) match is
// sought.
func Vorgang(ctx context.Context, tx store.Tx, p *types.Vorgang) (Result, error) {
	if stored, err := tx.GetVorgangByApiID(ctx, p.ApiID); err == nil {
		return Result{Kind: ExactlyOne, ID: stored.ID}, nil
	} else if !errors.Is(err, ltzferr.ErrNotFound) {
		return Result{}, err
	}
	ids, err := tx.FindVorgangBySharedIdent(ctx, p.Wahlperiode, p.Typ, p.Ids)
	if err != nil {
		return Result{}, err
	}
	return fromIDs(ids), nil
}

// Station resolves an incoming Station scoped to the Vorgang it is being
// ingested under. incomingHashes are the content hashes of P's embedded
// Dokumente (bare references do not contribute a hash at this stage).
func Station(ctx context.Context, tx store.Tx, vorgangID int64, p types.Station, incomingHashes []string) (Result, error) {
	if stored, err := tx.GetStationByApiID(ctx, p.ApiID); err == nil {
		return Result{Kind: ExactlyOne, ID: stored.ID}, nil
	} else if !errors.Is(err, ltzferr.ErrNotFound) {
		return Result{}, err
	}
	ids, err := tx.FindStationCandidates(ctx, vorgangID, p, incomingHashes)
	if err != nil {
		return Result{}, err
	}
	return fromIDs(ids), nil
}

// Dokument resolves an incoming Dokument: hash equality, api_id equality, or
// (drucksnr, typ) equality within the store's +-12h reference window -- all
// three folded into the store's single FindDokumentCandidates query.
func Dokument(ctx context.Context, tx store.Tx, p types.Dokument) (Result, error) {
	ids, err := tx.FindDokumentCandidates(ctx, p)
	if err != nil {
		return Result{}, err
	}
	return fromIDs(ids), nil
}

// EmbeddedHashes extracts the content hashes of every embedded (non-
// reference) Dokument in refs, the incomingHashes input Station needs.
func EmbeddedHashes(refs []types.DokRef) []string {
	var out []string
	for _, r := range refs {
		if r.Embedded != nil {
			out = append(out, r.Embedded.Hash)
		}
	}
	return out
}
