package database

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// probeCacheThreshold is the number of probes against the same (col, value)
// pair within one relation's lifetime after which the relation turns on a
// bounded LRU cache; from then on every probe of that relation, for any
// pair, goes through the cache instead of re-walking the column index (spec
// §9 polymorphism note; grounded: hashicorp/golang-lru/v2, vendored by both
// hashicorp-nomad and AKJUS-bsc-erigon).
const probeCacheThreshold = 4

// Relation is a named, deduplicated collection of same-arity Rows with
// zero or more active per-column indexes (spec §3).
type Relation struct {
	name  value.Symbol
	arity int

	tags mapset.Set[string]    // row identity set (spec: "set of Row ... duplicates silently coalesced")
	rows map[string]value.Row  // tag -> row storage

	indexes   map[int]columnIndex
	indexKind IndexKind

	probeHits map[string]int // "col:value" -> probe count, for cache promotion
	cache     *probeCache
}

// newRelation constructs an empty Relation of the given arity.
func newRelation(name value.Symbol, arity int, kind IndexKind) *Relation {
	return &Relation{
		name:      name,
		arity:     arity,
		tags:      mapset.NewThreadUnsafeSet[string](),
		rows:      make(map[string]value.Row),
		indexes:   make(map[int]columnIndex),
		indexKind: kind,
		probeHits: make(map[string]int),
	}
}

// Name returns the relation's interned symbol.
func (r *Relation) Name() value.Symbol { return r.name }

// Arity returns the relation's fixed row length.
func (r *Relation) Arity() int { return r.arity }

// Len returns the number of distinct rows currently in r.
func (r *Relation) Len() int { return len(r.rows) }

// insert adds row to r (idempotent on identical rows), maintaining every
// active index (spec §4.1 invariant I1).
func (r *Relation) insert(row value.Row) error {
	if len(row) != r.arity {
		return ErrArityMismatch
	}
	tag := row.Tag()
	if r.tags.Contains(tag) {
		return nil
	}
	r.tags.Add(tag)
	r.rows[tag] = row
	for col, idx := range r.indexes {
		idx.insert(row[col], tag, row)
	}
	if r.cache != nil {
		r.cache.invalidateAll()
	}
	return nil
}

// delete removes row from r and every active index; a silent no-op if
// absent (spec §4.1).
func (r *Relation) delete(row value.Row) {
	tag := row.Tag()
	if !r.tags.Contains(tag) {
		return
	}
	r.tags.Remove(tag)
	delete(r.rows, tag)
	for col, idx := range r.indexes {
		idx.remove(row[col], tag)
	}
	if r.cache != nil {
		r.cache.invalidateAll()
	}
}

// contains reports whether row is present in r.
func (r *Relation) contains(row value.Row) bool {
	return r.tags.Contains(row.Tag())
}

// scan yields every row in r, in unspecified but stable order for the
// duration of a single scan (spec §4.1).
func (r *Relation) scan() []value.Row {
	out := make([]value.Row, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out
}

// activateIndex builds a column index over all current rows (spec §4.1);
// subsequent inserts/deletes maintain it.
func (r *Relation) activateIndex(col int) error {
	if col < 0 || col >= r.arity {
		return fmt.Errorf("database: column %d out of range for arity %d", col, r.arity)
	}
	if _, ok := r.indexes[col]; ok {
		return nil
	}
	idx := newColumnIndex(r.indexKind)
	for tag, row := range r.rows {
		idx.insert(row[col], tag, row)
	}
	r.indexes[col] = idx
	return nil
}

// hasIndex reports whether col has an active index.
func (r *Relation) hasIndex(col int) bool {
	_, ok := r.indexes[col]
	return ok
}

// probe returns rows whose column col equals v; errors if col has no
// active index (spec §4.1). Once any (col, v) pair reaches
// probeCacheThreshold lookups, all later probes of r are served through a
// bounded LRU cache.
func (r *Relation) probe(col int, v value.Value) ([]value.Row, error) {
	idx, ok := r.indexes[col]
	if !ok {
		return nil, ErrIndexNotActive
	}
	key := fmt.Sprintf("%d:%s", col, value.Row{v}.Tag())
	r.probeHits[key]++
	if r.probeHits[key] == probeCacheThreshold {
		r.ensureCache()
	}
	if r.cache != nil {
		if rows, ok := r.cache.get(key); ok {
			return rows, nil
		}
	}
	rows := idx.probe(v)
	if r.cache != nil {
		r.cache.put(key, rows)
	}
	return rows, nil
}

func (r *Relation) ensureCache() {
	if r.cache == nil {
		r.cache = newProbeCache(256)
	}
}

// clone returns a deep-enough copy of r: independent row/tag/index storage
// sharing only the immutable value.Value payloads, so mutating the clone
// never affects r. Used by Database.Clone for non-installing evaluation
// (spec §6's evaluate).
func (r *Relation) clone() *Relation {
	nr := newRelation(r.name, r.arity, r.indexKind)
	for tag, row := range r.rows {
		nr.tags.Add(tag)
		nr.rows[tag] = row
	}
	for col := range r.indexes {
		_ = nr.activateIndex(col)
	}
	return nr
}

// orderedEntries returns col's index entries in ascending value order,
// activating the index first if needed; used by the algebraic evaluator's
// sort-merge join (spec §4.4).
func (r *Relation) orderedEntries(col int) []entry {
	idx, ok := r.indexes[col]
	if !ok {
		_ = r.activateIndex(col)
		idx = r.indexes[col]
	}
	return idx.orderedEntries()
}
