package memstore

import (
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

type vorgangRow struct {
	id                  int64
	apiID               types.ApiID
	titel               string
	kurztitel           *string
	wahlperiode         int
	typID               int64
	verfassungsaendernd bool
}

// relRow is a generic (id, parentID, childID) relation row used for the
// many "rel_*" association tables of spec.md section 6 that carry no extra
// payload beyond the pair itself.
type relRow struct {
	id       int64
	parentID int64
	childID  int64
}

// relLink is a parent->literal-string relation row (links, additional
// links, experten).
type relLink struct {
	id       int64
	parentID int64
	value    string
}

type relVorgangIdent struct {
	id            int64
	vorgangID     int64
	typID         int64
	identifikator string
}

// relStationDok is a parent-to-dokument link carrying the stellungnahme
// flag. Reused verbatim for Sitzung.dokumente (stationID holds the sitzung
// id there; stellungnahme is always false) since both are the same shape.
type relStationDok struct {
	id            int64
	stationID     int64
	dokumentID    int64
	stellungnahme bool
}

type dokumentRow struct {
	id            int64
	apiID         types.ApiID
	typID         int64
	titel         string
	volltext      *string
	link          string
	hash          string
	zpReferenz    int64 // unix nanos, see helpers.go
	zpModifiziert *int64
	drucksnr      *string
	kurztitel     *string
	vorwort       *string
	zusammenfassung *string
	zpErstellt    *int64
	meinung       *int
}

type lobbyRow struct {
	id           int64
	vorgangID    int64
	organisation string
	interne      *string
	drucksnr     []string
}

type sitzungRow struct {
	id        int64
	apiID     types.ApiID
	termin    int64
	public    bool
	gremiumID int64
	nummer    int
	titel     *string
	link      *string
}

type topRow struct {
	id        int64
	sitzungID int64
	nummer    int
	titel     string
}

type provenanceRow struct {
	entityID     int64
	scraperID    string
	collectorKey string
	timestamp    int64
}

type state struct {
	nextID int64

	vorgang map[int64]*vorgangRow
	vorgangLinks map[int64][]relLink
	vorgangIdent map[int64][]relVorgangIdent
	vorgangInit  map[int64][]relRow // parentID=vorgangID, childID=autorID, ordered by insertion
	lobby        map[int64][]lobbyRow

	station       map[int64]*stationRowFull
	stationLinks  map[int64][]relLink
	stationSchlagwort map[int64][]relRow // childID = schlagwort enum id
	stationDok    map[int64][]relStationDok

	dokument      map[int64]*dokumentRow
	dokSchlagwort map[int64][]relRow
	dokAutor      map[int64][]relRow

	autor   map[int64]*types.Autor
	gremium map[int64]*gremiumRowFull

	sitzung      map[int64]*sitzungRow
	sitzungDok   map[int64][]relStationDok
	sitzungExperten map[int64][]relLink
	top          map[int64]*topRow
	topsDok      map[int64][]relRow

	enum map[store.EnumFlavor]map[int64]string

	provenance map[string][]provenanceRow // key: kind+":"+entityID
}

// stationRowFull is the in-memory Station row.
type stationRowFull struct {
	id             int64
	apiID          types.ApiID
	vorgangID      int64
	typID          int64
	zpStart        int64
	zpModifiziert  *int64
	titel          *string
	link           *string
	gremiumFederf  *bool
	trojanergefahr *int
	parlamentID    int64
	gremiumID      *int64
}

type gremiumRowFull struct {
	id          int64
	name        string
	parlamentID int64
	wahlperiode int
	link        *string
}

func newState() *state {
	return &state{
		vorgang:           map[int64]*vorgangRow{},
		vorgangLinks:      map[int64][]relLink{},
		vorgangIdent:      map[int64][]relVorgangIdent{},
		vorgangInit:       map[int64][]relRow{},
		lobby:             map[int64][]lobbyRow{},
		station:           map[int64]*stationRowFull{},
		stationLinks:      map[int64][]relLink{},
		stationSchlagwort: map[int64][]relRow{},
		stationDok:        map[int64][]relStationDok{},
		dokument:          map[int64]*dokumentRow{},
		dokSchlagwort:     map[int64][]relRow{},
		dokAutor:          map[int64][]relRow{},
		autor:             map[int64]*types.Autor{},
		gremium:           map[int64]*gremiumRowFull{},
		sitzung:           map[int64]*sitzungRow{},
		sitzungDok:        map[int64][]relStationDok{},
		sitzungExperten:   map[int64][]relLink{},
		top:               map[int64]*topRow{},
		topsDok:           map[int64][]relRow{},
		enum:              map[store.EnumFlavor]map[int64]string{},
		provenance:        map[string][]provenanceRow{},
	}
}

func (s *state) clone() *state {
	c := &state{
		nextID:            s.nextID,
		vorgang:           make(map[int64]*vorgangRow, len(s.vorgang)),
		vorgangLinks:      make(map[int64][]relLink, len(s.vorgangLinks)),
		vorgangIdent:      make(map[int64][]relVorgangIdent, len(s.vorgangIdent)),
		vorgangInit:       make(map[int64][]relRow, len(s.vorgangInit)),
		lobby:             make(map[int64][]lobbyRow, len(s.lobby)),
		station:           make(map[int64]*stationRowFull, len(s.station)),
		stationLinks:      make(map[int64][]relLink, len(s.stationLinks)),
		stationSchlagwort: make(map[int64][]relRow, len(s.stationSchlagwort)),
		stationDok:        make(map[int64][]relStationDok, len(s.stationDok)),
		dokument:          make(map[int64]*dokumentRow, len(s.dokument)),
		dokSchlagwort:     make(map[int64][]relRow, len(s.dokSchlagwort)),
		dokAutor:          make(map[int64][]relRow, len(s.dokAutor)),
		autor:             make(map[int64]*types.Autor, len(s.autor)),
		gremium:           make(map[int64]*gremiumRowFull, len(s.gremium)),
		sitzung:           make(map[int64]*sitzungRow, len(s.sitzung)),
		sitzungDok:        make(map[int64][]relStationDok, len(s.sitzungDok)),
		sitzungExperten:   make(map[int64][]relLink, len(s.sitzungExperten)),
		top:               make(map[int64]*topRow, len(s.top)),
		topsDok:           make(map[int64][]relRow, len(s.topsDok)),
		enum:              make(map[store.EnumFlavor]map[int64]string, len(s.enum)),
		provenance:        make(map[string][]provenanceRow, len(s.provenance)),
	}
	for k, v := range s.vorgang {
		cp := *v
		c.vorgang[k] = &cp
	}
	for k, v := range s.vorgangLinks {
		c.vorgangLinks[k] = append([]relLink(nil), v...)
	}
	for k, v := range s.vorgangIdent {
		c.vorgangIdent[k] = append([]relVorgangIdent(nil), v...)
	}
	for k, v := range s.vorgangInit {
		c.vorgangInit[k] = append([]relRow(nil), v...)
	}
	for k, v := range s.lobby {
		c.lobby[k] = append([]lobbyRow(nil), v...)
	}
	for k, v := range s.station {
		cp := *v
		c.station[k] = &cp
	}
	for k, v := range s.stationLinks {
		c.stationLinks[k] = append([]relLink(nil), v...)
	}
	for k, v := range s.stationSchlagwort {
		c.stationSchlagwort[k] = append([]relRow(nil), v...)
	}
	for k, v := range s.stationDok {
		c.stationDok[k] = append([]relStationDok(nil), v...)
	}
	for k, v := range s.dokument {
		cp := *v
		c.dokument[k] = &cp
	}
	for k, v := range s.dokSchlagwort {
		c.dokSchlagwort[k] = append([]relRow(nil), v...)
	}
	for k, v := range s.dokAutor {
		c.dokAutor[k] = append([]relRow(nil), v...)
	}
	for k, v := range s.autor {
		cp := *v
		c.autor[k] = &cp
	}
	for k, v := range s.gremium {
		cp := *v
		c.gremium[k] = &cp
	}
	for k, v := range s.sitzung {
		cp := *v
		c.sitzung[k] = &cp
	}
	for k, v := range s.sitzungDok {
		c.sitzungDok[k] = append([]relStationDok(nil), v...)
	}
	for k, v := range s.sitzungExperten {
		c.sitzungExperten[k] = append([]relLink(nil), v...)
	}
	for k, v := range s.top {
		cp := *v
		c.top[k] = &cp
	}
	for k, v := range s.topsDok {
		c.topsDok[k] = append([]relRow(nil), v...)
	}
	for flavor, values := range s.enum {
		m := make(map[int64]string, len(values))
		for id, v := range values {
			m[id] = v
		}
		c.enum[flavor] = m
	}
	for k, v := range s.provenance {
		c.provenance[k] = append([]provenanceRow(nil), v...)
	}
	return c
}

func (s *state) allocID() int64 {
	s.nextID++
	return s.nextID
}
