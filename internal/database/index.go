package database

import (
	"sort"

	"github.com/google/btree"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// IndexKind selects a column index's backing implementation. The Database
// is polymorphic over index backing (spec §9): a small interface with
// insert/remove/probe/orderedEntries, implemented here by a hash map and by
// an ordered tree (github.com/google/btree, grounded: AKJUS-bsc-erigon,
// hashicorp-nomad both vendor it).
type IndexKind uint8

const (
	// IndexKindHash backs a column index with a plain Go map: O(1) probe,
	// no ordering guarantee. Default.
	IndexKindHash IndexKind = iota
	// IndexKindTree backs a column index with a google/btree ordered tree:
	// O(log n) probe, but supports ordered iteration, which the algebraic
	// evaluator's sort-merge join (spec §4.4) relies on.
	IndexKindTree
)

// entry is one column-value bucket: every row holding that value in the
// indexed column, keyed by row tag to coalesce duplicates.
type entry struct {
	val  value.Value
	rows map[string]value.Row
}

// columnIndex is the small interface spec §9 calls for: "insert,
// iter_ordered, and join_with(other)" (join_with lives one level up, in
// evalalgebra, built from orderedEntries).
type columnIndex interface {
	insert(v value.Value, tag string, row value.Row)
	remove(v value.Value, tag string)
	probe(v value.Value) []value.Row
	orderedEntries() []entry
}

// --- hash-backed index ---

type hashIndex struct {
	buckets map[string]*entry // keyed by the kind-qualified tag value.Row{v}.Tag()
}

func newHashIndex() *hashIndex {
	return &hashIndex{buckets: make(map[string]*entry)}
}

func (h *hashIndex) insert(v value.Value, tag string, row value.Row) {
	key := value.Row{v}.Tag()
	e, ok := h.buckets[key]
	if !ok {
		e = &entry{val: v, rows: make(map[string]value.Row)}
		h.buckets[key] = e
	}
	e.rows[tag] = row
}

func (h *hashIndex) remove(v value.Value, tag string) {
	key := value.Row{v}.Tag()
	e, ok := h.buckets[key]
	if !ok {
		return
	}
	delete(e.rows, tag)
	if len(e.rows) == 0 {
		delete(h.buckets, key)
	}
}

func (h *hashIndex) probe(v value.Value) []value.Row {
	e, ok := h.buckets[value.Row{v}.Tag()]
	if !ok {
		return nil
	}
	out := make([]value.Row, 0, len(e.rows))
	for _, r := range e.rows {
		out = append(out, r)
	}
	return out
}

func (h *hashIndex) orderedEntries() []entry {
	out := make([]entry, 0, len(h.buckets))
	for _, e := range h.buckets {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return value.Compare(out[i].val, out[j].val) < 0 })
	return out
}

// --- btree-backed ordered index ---

type treeItem struct {
	val  value.Value
	rows map[string]value.Row
}

func treeLess(a, b treeItem) bool {
	return value.Compare(a.val, b.val) < 0
}

type treeIndex struct {
	t *btree.BTreeG[treeItem]
}

func newTreeIndex() *treeIndex {
	return &treeIndex{t: btree.NewG(32, treeLess)}
}

func (t *treeIndex) insert(v value.Value, tag string, row value.Row) {
	item, ok := t.t.Get(treeItem{val: v})
	if !ok {
		item = treeItem{val: v, rows: make(map[string]value.Row)}
	}
	item.rows[tag] = row
	t.t.ReplaceOrInsert(item)
}

func (t *treeIndex) remove(v value.Value, tag string) {
	item, ok := t.t.Get(treeItem{val: v})
	if !ok {
		return
	}
	delete(item.rows, tag)
	if len(item.rows) == 0 {
		t.t.Delete(treeItem{val: v})
	} else {
		t.t.ReplaceOrInsert(item)
	}
}

func (t *treeIndex) probe(v value.Value) []value.Row {
	item, ok := t.t.Get(treeItem{val: v})
	if !ok {
		return nil
	}
	out := make([]value.Row, 0, len(item.rows))
	for _, r := range item.rows {
		out = append(out, r)
	}
	return out
}

func (t *treeIndex) orderedEntries() []entry {
	out := make([]entry, 0, t.t.Len())
	t.t.Ascend(func(item treeItem) bool {
		out = append(out, entry{val: item.val, rows: item.rows})
		return true
	})
	return out
}

func newColumnIndex(kind IndexKind) columnIndex {
	switch kind {
	case IndexKindTree:
		return newTreeIndex()
	default:
		return newHashIndex()
	}
}
