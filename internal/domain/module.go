package domain

// Module is one curriculum module (lesson or quiz) from the catalog.
// Static per catalog version; the sequencer never mutates modules.
type Module struct {
	ID           string
	CategoryKey  string
	Title        string
	Kind         ModuleKind
	Prereqs      []string // module ids, ordered as authored
	EstimatedMin int
	OrderIndex   int // position within the category's library
	Objectives   []string
	Refresher    bool // eligible for long-range spaced-repetition slots
}

// Unit is one schedulable piece of content: a whole module, or one part
// of a module the normalizer split to fit the session cap. Multi-part
// chains keep ModuleID + PartIndex so the origin module is recoverable.
type Unit struct {
	ID          string
	CategoryKey string
	Kind        ItemKind
	Title       string
	Minutes     int
	Prereqs     []string // unit ids, all must be placed earlier
	ModuleID    string
	PartIndex   int // 1-based; 0 for unsplit modules
	PartCount   int // 0 for unsplit modules
	Refresher   bool
}
