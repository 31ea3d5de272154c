// Package intern provides the string-interner collaborator the core
// assumes is injected (spec §1: "assume an injected service with
// intern(str) -> symbol_id and resolve(symbol_id) -> str"). The core only
// depends on the Interner interface; Table is a default implementation so
// the reasoner is runnable standalone.
package intern

import (
	"sync"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// Interner maps between strings and the compact Symbol ids used for
// relation names and, optionally, string term values. Implementations must
// be safe for concurrent Intern calls (the semi-naive driver's parallel
// pass may intern fresh scratch-relation names from multiple goroutines
// only during sequential setup, never mid-pass, but Resolve is called
// freely from logging and pretty-printing on any goroutine).
type Interner interface {
	Intern(s string) value.Symbol
	Resolve(sym value.Symbol) (string, bool)
}

// Table is the default Interner: a simple bidirectional map guarded by a
// mutex. It must survive as long as any Row referencing it (spec §9).
type Table struct {
	mu     sync.RWMutex
	toSym  map[string]value.Symbol
	toName []string
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{toSym: make(map[string]value.Symbol)}
}

// Intern returns the Symbol bound to s, assigning a fresh one on first use.
func (t *Table) Intern(s string) value.Symbol {
	t.mu.RLock()
	if sym, ok := t.toSym[s]; ok {
		t.mu.RUnlock()
		return sym
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if sym, ok := t.toSym[s]; ok {
		return sym
	}
	sym := value.Symbol(len(t.toName))
	t.toSym[s] = sym
	t.toName = append(t.toName, s)
	return sym
}

// Resolve returns the string bound to sym, or ok=false if sym was never
// interned by this table.
func (t *Table) Resolve(sym value.Symbol) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(sym) >= len(t.toName) {
		return "", false
	}
	return t.toName[sym], true
}
