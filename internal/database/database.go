// Package database implements the Fact Database (spec §4.1, C2): a
// mapping from relation symbol to Relation, with per-column indexes.
package database

import (
	"go.uber.org/zap"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// Database maps relation symbols to Relations. Insertion creates the
// Relation on first use; deletion is logical (spec §3).
type Database struct {
	relations map[value.Symbol]*Relation
	indexKind IndexKind
	log       *zap.Logger
}

// New returns an empty Database. A nil logger is replaced with zap's no-op
// logger, the way AKJUS-bsc-erigon and theRebelliousNerd-codenerd thread an
// optional *zap.Logger through constructors.
func New(kind IndexKind, log *zap.Logger) *Database {
	if log == nil {
		log = zap.NewNop()
	}
	return &Database{
		relations: make(map[value.Symbol]*Relation),
		indexKind: kind,
		log:       log,
	}
}

// Relations returns every relation symbol currently present (including
// empty ones created only to hold an activated index).
func (d *Database) Relations() []value.Symbol {
	out := make([]value.Symbol, 0, len(d.relations))
	for sym := range d.relations {
		out = append(out, sym)
	}
	return out
}

// Get returns the Relation for sym, or ok=false if it has never been
// touched by Insert/ActivateIndex.
func (d *Database) Get(sym value.Symbol) (*Relation, bool) {
	r, ok := d.relations[sym]
	return r, ok
}

// getOrCreate returns sym's relation, creating it with the given arity on
// first use.
func (d *Database) getOrCreate(sym value.Symbol, arity int) *Relation {
	r, ok := d.relations[sym]
	if !ok {
		r = newRelation(sym, arity, d.indexKind)
		d.relations[sym] = r
	}
	return r
}

// Insert adds row to the relation named sym, creating the relation with
// row's arity on first use; fails with ErrArityMismatch if row's arity
// disagrees with that of a relation holding rows (spec §4.1). An empty
// relation, such as one ActivateIndex created, takes row's arity and
// keeps its active indexes.
func (d *Database) Insert(sym value.Symbol, row value.Row) error {
	r := d.getOrCreate(sym, len(row))
	if r.Len() == 0 && r.Arity() != len(row) {
		nr := newRelation(sym, len(row), d.indexKind)
		for col := range r.indexes {
			_ = nr.activateIndex(col)
		}
		d.relations[sym] = nr
		r = nr
	}
	if err := r.insert(row); err != nil {
		d.log.Debug("insert rejected", zap.Uint32("relation", uint32(sym)), zap.Error(err))
		return err
	}
	d.log.Debug("insert", zap.Uint32("relation", uint32(sym)), zap.String("row", row.Tag()))
	return nil
}

// Delete removes row from the relation named sym; a silent no-op if the
// relation or row is absent (spec §4.1).
func (d *Database) Delete(sym value.Symbol, row value.Row) {
	r, ok := d.relations[sym]
	if !ok {
		return
	}
	r.delete(row)
	d.log.Debug("delete", zap.Uint32("relation", uint32(sym)), zap.String("row", row.Tag()))
}

// Contains reports whether row is present in the relation named sym.
func (d *Database) Contains(sym value.Symbol, row value.Row) bool {
	r, ok := d.relations[sym]
	if !ok {
		return false
	}
	return r.contains(row)
}

// Scan yields every row currently in the relation named sym, or nil if the
// relation doesn't exist (spec §4.1; unknown-relation scans are treated as
// empty by callers in the evaluators, per spec §4.3's "unknown relation
// mid-evaluation yields an empty extension").
func (d *Database) Scan(sym value.Symbol) []value.Row {
	r, ok := d.relations[sym]
	if !ok {
		return nil
	}
	return r.scan()
}

// ActivateIndex builds a column index over all current rows of sym,
// creating the (empty) relation first if needed (spec §4.1).
func (d *Database) ActivateIndex(sym value.Symbol, col int) error {
	r, ok := d.relations[sym]
	if !ok {
		r = d.getOrCreate(sym, col+1)
	}
	return r.activateIndex(col)
}

// HasIndex reports whether sym has an active index on col.
func (d *Database) HasIndex(sym value.Symbol, col int) bool {
	r, ok := d.relations[sym]
	if !ok {
		return false
	}
	return r.hasIndex(col)
}

// Probe returns the rows whose column col equals v in relation sym (spec
// §4.1); ErrIndexNotActive if no index is active, ErrUnknownRelation if
// the relation doesn't exist.
func (d *Database) Probe(sym value.Symbol, col int, v value.Value) ([]value.Row, error) {
	r, ok := d.relations[sym]
	if !ok {
		return nil, ErrUnknownRelation
	}
	return r.probe(col, v)
}

// OrderedEntries exposes a relation's column index in ascending value
// order, for the algebraic evaluator's sort-merge join (spec §4.4).
func (d *Database) OrderedEntries(sym value.Symbol, col int) []value.Row {
	r, ok := d.relations[sym]
	if !ok {
		return nil
	}
	var out []value.Row
	for _, e := range r.orderedEntries(col) {
		for _, row := range e.rows {
			out = append(out, row)
		}
	}
	return out
}

// TripleCount returns the total number of rows across every relation in
// the Database (spec §6 Reasoner API: triple_count).
func (d *Database) TripleCount() int {
	n := 0
	for _, r := range d.relations {
		n += r.Len()
	}
	return n
}

// Snapshot returns a deep-enough independent copy of the Database's
// relation map: every Relation is cloned, not shared, via the same
// Relation.clone used by Clone below. materialize takes it after the
// program has passed validation and restores it if the driver returns an
// error (spec §7: "a partial materialization is never exposed"). A
// shallow, pointer-sharing copy would not do here —
// Relation.insert/delete mutate a *Relation's row/tag/index storage in
// place, so a partially-applied materialize would otherwise have already
// clobbered the "snapshot" before Restore ever ran.
func (d *Database) Snapshot() map[value.Symbol]*Relation {
	out := make(map[value.Symbol]*Relation, len(d.relations))
	for k, v := range d.relations {
		out[k] = v.clone()
	}
	return out
}

// Restore replaces the Database's relation map with snap (see Snapshot).
func (d *Database) Restore(snap map[value.Symbol]*Relation) {
	d.relations = snap
}

// Clone returns a deep-enough independent copy of the Database: every
// Relation's row/tag/index storage is duplicated, so inserts and deletes
// against the clone never affect the original. Used for non-installing
// evaluation (spec §6's evaluate), where the semi-naive driver must be
// free to insert derived rows without touching the caller's stored facts.
func (d *Database) Clone() *Database {
	nd := New(d.indexKind, d.log)
	for sym, r := range d.relations {
		nd.relations[sym] = r.clone()
	}
	return nd
}

// DropRelation removes sym from the Database entirely, used by the
// incremental maintainer to discard scratch Δ/-/+ relations at pass end
// (spec §4.6 step 3, §5 "Resource scope").
func (d *Database) DropRelation(sym value.Symbol) {
	delete(d.relations, sym)
}

// Logger returns the Database's logger, for components that layer
// additional logging on top of it (e.g. the semi-naive driver).
func (d *Database) Logger() *zap.Logger { return d.log }
