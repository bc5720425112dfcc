package types

// Sonstig is the sentinel value guarded enumerations fall back to when a
// collector sends a value outside the known vocabulary. Its use is always
// reported to the notification sink (see internal/guard).
const Sonstig = "sonstig"

// Vorgangstyp is the guarded enumeration of process kinds.
type Vorgangstyp string

const (
	VorgangstypGgZustimmung    Vorgangstyp = "gg-zustimmung"
	VorgangstypGgEinspruch     Vorgangstyp = "gg-einspruch"
	VorgangstypBuPetition      Vorgangstyp = "bu-petition"
	VorgangstypSonstbeschluss  Vorgangstyp = "sonstbeschluss"
	VorgangstypSonstig         Vorgangstyp = Sonstig
)

// KnownVorgangstypen is the closed vocabulary consulted by the identity guard.
var KnownVorgangstypen = map[string]struct{}{
	string(VorgangstypGgZustimmung):   {},
	string(VorgangstypGgEinspruch):    {},
	string(VorgangstypBuPetition):     {},
	string(VorgangstypSonstbeschluss): {},
}

// Stationstyp is the guarded enumeration of procedural station kinds.
type Stationstyp string

const (
	StationstypPreparlamentarisch Stationstyp = "preparlamentarisch"
	StationstypParlInitiativ      Stationstyp = "parl-initiativ"
	StationstypParlAusschuss      Stationstyp = "parl-ausschuss"
	StationstypParlLesung         Stationstyp = "parl-lesung"
	StationstypParlAbstimmung     Stationstyp = "parl-abstimmung"
	StationstypPostparlamentarisch Stationstyp = "postparlamentarisch"
	StationstypSonstig           Stationstyp = Sonstig
)

var KnownStationstypen = map[string]struct{}{
	string(StationstypPreparlamentarisch):  {},
	string(StationstypParlInitiativ):       {},
	string(StationstypParlAusschuss):       {},
	string(StationstypParlLesung):          {},
	string(StationstypParlAbstimmung):      {},
	string(StationstypPostparlamentarisch): {},
}

// Parlament is the guarded enumeration of parliamentary bodies.
type Parlament string

const (
	ParlamentBT      Parlament = "bt"
	ParlamentBR      Parlament = "br"
	ParlamentBV      Parlament = "bv"
	ParlamentEK      Parlament = "ek"
	ParlamentSonstig Parlament = Sonstig
)

var KnownParlamente = map[string]struct{}{
	string(ParlamentBT): {},
	string(ParlamentBR): {},
	string(ParlamentBV): {},
	string(ParlamentEK): {},
}

// Doktyp is the guarded enumeration of document kinds.
type Doktyp string

const (
	DoktypDrucksache     Doktyp = "drucksache"
	DoktypPlenarprotokoll Doktyp = "plenarprotokoll"
	DoktypStellungnahme  Doktyp = "stellungnahme"
	DoktypGutachten      Doktyp = "gutachten"
	DoktypSonstig        Doktyp = Sonstig
)

var KnownDoktypen = map[string]struct{}{
	string(DoktypDrucksache):      {},
	string(DoktypPlenarprotokoll): {},
	string(DoktypStellungnahme):   {},
	string(DoktypGutachten):       {},
}

// VgIdentTyp is the guarded enumeration of external identifier kinds a
// Vorgang may carry in its `ids` set (e.g. the printed-item number scheme).
type VgIdentTyp string

const (
	VgIdentTypInitdrucks VgIdentTyp = "initdrucks"
	VgIdentTypVorgnr     VgIdentTyp = "vorgnr"
	VgIdentTypApiId      VgIdentTyp = "api-id"
	VgIdentTypSonstig    VgIdentTyp = Sonstig
)

var KnownVgIdentTypen = map[string]struct{}{
	string(VgIdentTypInitdrucks): {},
	string(VgIdentTypVorgnr):     {},
	string(VgIdentTypApiId):      {},
}
