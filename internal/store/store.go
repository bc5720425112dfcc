// Package store defines the relational store (R) contract: the single
// transactional unit every core operation runs inside, and the operations
// the candidate resolver, merge executor, enum replacement engine, object
// orchestrator and retrieval layer need from it. internal/store/memstore is
// the implementation the binary and the unit tests run against;
// internal/store/sqlstore opens a MySQL connection and applies its schema
// but does not implement Store or Tx.
package store

import (
	"context"
	"time"

	"github.com/ltzf/ltzfd/internal/types"
)

// EntityKind names the owner of a provenance log, one per spec.md's
// scraper_touched_{vorgang,station,dokument,sitzung} tables.
type EntityKind string

const (
	EntityVorgang  EntityKind = "vorgang"
	EntityStation  EntityKind = "station"
	EntityDokument EntityKind = "dokument"
	EntitySitzung  EntityKind = "sitzung"
)

// EnumFlavor names an enum-replacement flavor: the three of spec.md
// section 4.3, plus the vocabulary flavors listed after them.
type EnumFlavor string

const (
	FlavorAutoren    EnumFlavor = "autoren"
	FlavorGremien    EnumFlavor = "gremien"
	FlavorSchlagwort EnumFlavor = "schlagworte"
	// Vocabulary flavors reachable through the generic /enumeration/{name}
	// route of spec.md section 6.
	FlavorStationstyp  EnumFlavor = "stationstypen"
	FlavorParlament    EnumFlavor = "parlamente"
	FlavorVorgangstyp  EnumFlavor = "vorgangstypen"
	FlavorDoktyp       EnumFlavor = "dokumententypen"
	FlavorVgIdentTyp   EnumFlavor = "vgidtypen"
)

// EnumPair is one (new, old) rewrite directive produced from a `replacing`
// request: every reference to Old should end up pointing at New, after which
// the Old row is deleted.
type EnumPair struct {
	New int64
	Old int64
}

// Store produces transactions. All multi-statement core operations run
// inside a single transaction per request (spec.md section 5).
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is the transaction-scoped handle every component operates against.
// Commit/Rollback follow database/sql.Tx semantics: calling either ends the
// transaction, and a context cancellation rolls it back.
type Tx interface {
	Commit() error
	Rollback() error

	// --- Vorgang ---
	GetVorgangByApiID(ctx context.Context, id types.ApiID) (*types.Vorgang, error)
	GetVorgang(ctx context.Context, id int64) (*types.Vorgang, error)
	// FindVorgangBySharedIdent returns the surrogate ids of stored Vorgangs
	// sharing (wahlperiode, typ) and at least one identifier with ids.
	FindVorgangBySharedIdent(ctx context.Context, wahlperiode int, typ types.Vorgangstyp, ids []types.VgIdent) ([]int64, error)
	InsertVorgang(ctx context.Context, v *types.Vorgang) (int64, error)
	ReplaceVorgangScalarFields(ctx context.Context, id int64, v *types.Vorgang) error
	ReplaceVorgangLinks(ctx context.Context, id int64, links []string) error
	ReplaceVorgangIds(ctx context.Context, id int64, ids []types.VgIdent) error
	ReplaceVorgangInitiatoren(ctx context.Context, id int64, autoren []types.Autor) error
	ReplaceLobbyregister(ctx context.Context, vorgangID int64, entries []types.Lobbyregistereintrag) error
	DeleteVorgang(ctx context.Context, apiID types.ApiID) error

	// --- Station ---
	StationsByVorgang(ctx context.Context, vorgangID int64) ([]types.Station, error)
	// FindStationCandidates implements spec.md's Station matching rule scoped
	// to vorgangID: same typ, compatible gremium/parlament/wahlperiode, and a
	// shared Dokument hash with incomingHashes.
	FindStationCandidates(ctx context.Context, vorgangID int64, p types.Station, incomingHashes []string) ([]int64, error)
	GetStation(ctx context.Context, id int64) (*types.Station, error)
	GetStationByApiID(ctx context.Context, id types.ApiID) (*types.Station, error)
	InsertStation(ctx context.Context, vorgangID int64, s *types.Station) (int64, error)
	ReplaceStationScalarFields(ctx context.Context, id int64, s *types.Station) error
	ReplaceStationLinks(ctx context.Context, id int64, links []string) error
	ReplaceStationSchlagworte(ctx context.Context, id int64, words []string) error
	StationDokumentHashes(ctx context.Context, stationID int64, stellungnahmen bool) ([]string, error)
	AttachStationDokument(ctx context.Context, stationID, dokID int64, asStellungnahme bool) error
	DeleteStation(ctx context.Context, id int64) error

	// --- Dokument ---
	// FindDokumentCandidates implements spec.md's Dokument matching rule:
	// hash equality, api_id equality, or (drucksnr, typ) equality with
	// zp_referenz within +-12h.
	FindDokumentCandidates(ctx context.Context, p types.Dokument) ([]int64, error)
	GetDokument(ctx context.Context, id int64) (*types.Dokument, error)
	GetDokumentByApiID(ctx context.Context, id types.ApiID) (*types.Dokument, error)
	InsertDokument(ctx context.Context, d *types.Dokument) (int64, error)
	ReplaceDokumentScalarFields(ctx context.Context, id int64, d *types.Dokument) error
	ReplaceDokumentSchlagworte(ctx context.Context, id int64, words []string) error
	ReplaceDokumentAutoren(ctx context.Context, id int64, autoren []types.Autor) error

	// --- Autor / Gremium (shared vocabularies, composite-unique) ---
	UpsertAutor(ctx context.Context, a types.Autor) (int64, error)
	GetAutor(ctx context.Context, id int64) (*types.Autor, error)
	ListAutoren(ctx context.Context) ([]types.Autor, error)
	UpsertGremium(ctx context.Context, g types.Gremium) (int64, error)
	GetGremium(ctx context.Context, id int64) (*types.Gremium, error)
	ListGremien(ctx context.Context) ([]types.Gremium, error)

	// --- Enum replacement engine (flavor-generic over controlled
	// vocabularies, and the author/committee tables which follow the same
	// protocol per spec.md section 4.3) ---
	EnumValues(ctx context.Context, flavor EnumFlavor) ([]string, error)
	EnumIDByValue(ctx context.Context, flavor EnumFlavor, value string) (id int64, found bool, err error)
	EnumUpsert(ctx context.Context, flavor EnumFlavor, value string) (id int64, created bool, err error)
	// EnumRewriteReferences runs the conflict-resolution pass (deleting rows
	// that would violate a composite-unique constraint after rewrite) and
	// then the FK rewrite, for every table referencing flavor.
	EnumRewriteReferences(ctx context.Context, flavor EnumFlavor, pairs []EnumPair) error
	EnumDelete(ctx context.Context, flavor EnumFlavor, ids []int64) error

	// AutorIDByKey/GremiumIDByKey/AutorRewriteReferences/... give the
	// Autoren and Gremien flavors of the enum replacement engine (E) the
	// same upsert/rewrite/delete protocol as EnumUpsert/EnumRewriteReferences/
	// EnumDelete above, over their composite-key identity instead of a bare
	// string value.
	AutorIDByKey(ctx context.Context, key types.AutorKey) (id int64, found bool, err error)
	AutorRewriteReferences(ctx context.Context, pairs []EnumPair) error
	AutorDelete(ctx context.Context, ids []int64) error

	GremiumIDByKey(ctx context.Context, key types.GremiumKey) (id int64, found bool, err error)
	GremiumRewriteReferences(ctx context.Context, pairs []EnumPair) error
	GremiumDelete(ctx context.Context, ids []int64) error

	// --- Provenance ---
	TouchProvenance(ctx context.Context, kind EntityKind, entityID int64, collectorKey, scraperID string, now time.Time, maxSize int) error
	ProvenanceOf(ctx context.Context, kind EntityKind, entityID int64) ([]types.ProvenanceEntry, error)

	// --- Sitzung / Top ---
	GetSitzungByApiID(ctx context.Context, id types.ApiID) (*types.Sitzung, error)
	GetSitzung(ctx context.Context, id int64) (*types.Sitzung, error)
	InsertSitzung(ctx context.Context, s *types.Sitzung) (int64, error)
	DeleteSitzung(ctx context.Context, apiID types.ApiID) error
	SitzungenForCalendarDay(ctx context.Context, parlament types.Parlament, datum time.Time) ([]types.Sitzung, error)
	ReplaceSitzungenForCalendarDay(ctx context.Context, parlament types.Parlament, datum time.Time, sitzungen []types.Sitzung) ([]int64, error)
	TopsLinkedVorgangIDs(ctx context.Context, topID int64) ([]types.ApiID, error)

	// --- Retrieval ---
	ListVorgang(ctx context.Context, f VorgangFilter) ([]types.Vorgang, int, error)
	ListSitzung(ctx context.Context, f SitzungFilter) ([]types.Sitzung, int, error)
}
