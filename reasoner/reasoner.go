// Package reasoner is the Datalog reasoning engine's public API (spec §6):
// insert/delete/contains on the fact store, materialize/update/evaluate on
// rule programs, wiring the ten internal components (C1-C10) behind a
// single-threaded entry point (spec §5).
//
// Grounded on the teacher's own top-level entry point
// (kevinawalsh-datalog/dlengine/dlengine.go's Engine), generalized from its
// top-down query-driven API to this spec's install-then-materialize model,
// and on the functional-options constructor idiom used throughout
// AKJUS-bsc-erigon and theRebelliousNerd-codenerd.
package reasoner

import (
	"go.uber.org/zap"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/database"
	"github.com/kevinawalsh/reasoner/internal/driver"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/rewrite"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// Sign tags a Change as an insertion or a retraction (spec §6's
// `update(changes: (sign, relation, row)[])`).
type Sign bool

const (
	// Add marks a Change as an insertion.
	Add Sign = true
	// Remove marks a Change as a retraction.
	Remove Sign = false
)

// Change is one entry of an update call: insert or retract row from
// relation.
type Change struct {
	Sign     Sign
	Relation value.Symbol
	Row      value.Row
}

// Reasoner is the engine's single-threaded entry point: one
// materialize/update call completes before the next begins (spec §5),
// though a call may internally fan out across a worker pool.
type Reasoner struct {
	db  *database.Database
	in  intern.Interner
	drv *driver.Driver
	log *zap.Logger

	program []ast.Rule // currently installed program, retained across Update calls
}

// Option configures a Reasoner at construction.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	parallel  bool
	indexKind database.IndexKind
	interner  intern.Interner
}

// WithLogger sets the Reasoner's structured logger.
func WithLogger(log *zap.Logger) Option { return func(o *options) { o.logger = log } }

// WithParallel selects the parallel apply_rules strategy (spec §4.5, §5)
// when enabled; sequential (the default) otherwise.
func WithParallel(enabled bool) Option { return func(o *options) { o.parallel = enabled } }

// WithIndexKind selects the Database's default column-index backing (spec
// §9's polymorphism note).
func WithIndexKind(kind database.IndexKind) Option {
	return func(o *options) { o.indexKind = kind }
}

// WithInterner supplies an external interner implementation (spec §1: "the
// string-interner implementation... assume an injected service").
func WithInterner(in intern.Interner) Option { return func(o *options) { o.interner = in } }

// New constructs a Reasoner with an empty Database and no installed
// program.
func New(opts ...Option) *Reasoner {
	o := &options{logger: zap.NewNop(), indexKind: database.IndexKindHash}
	for _, opt := range opts {
		opt(o)
	}
	if o.interner == nil {
		o.interner = intern.NewTable()
	}

	db := database.New(o.indexKind, o.logger)
	strategy := driver.Sequential
	if o.parallel {
		strategy = driver.Parallel
	}
	// The algebraic evaluator (C7) is always the driver's primary
	// back-end; it transparently defers rules with a negated body atom to
	// the substitution evaluator (C6) (see internal/evalalgebra's package
	// doc), so there is no need to expose an evaluator choice at this
	// level (spec §6's Option list names only logger/parallel/index/
	// interner).
	drv := driver.New(db, o.interner,
		driver.WithEvaluator(driver.Algebra),
		driver.WithStrategy(strategy),
		driver.WithLogger(o.logger))

	return &Reasoner{db: db, in: o.interner, drv: drv, log: o.logger}
}

// Insert adds row to relation (spec §6).
func (r *Reasoner) Insert(relation value.Symbol, row value.Row) error {
	return r.db.Insert(relation, row)
}

// Delete removes row from relation (spec §6).
func (r *Reasoner) Delete(relation value.Symbol, row value.Row) error {
	r.db.Delete(relation, row)
	return nil
}

// Contains reports whether row is present in relation (spec §6).
func (r *Reasoner) Contains(relation value.Symbol, row value.Row) bool {
	return r.db.Contains(relation, row)
}

// TripleCount returns the total number of rows across every relation (spec
// §6).
func (r *Reasoner) TripleCount() int {
	return r.db.TripleCount()
}

// Materialize installs program and runs it to fixpoint (spec §6). Compile
// errors (unsafe rule, arity mismatch, unstratified negation) are reported
// together as a single error and leave the Database untouched (spec §7:
// "a partial materialization is never exposed").
func (r *Reasoner) Materialize(program []ast.Rule) error {
	if err := rewrite.Validate(program); err != nil {
		return err
	}

	snapshot := r.db.Snapshot()
	if _, err := r.drv.Materialize(program); err != nil {
		r.db.Restore(snapshot)
		return err
	}
	r.program = program
	return nil
}

// Update applies changes atomically: every retraction first (processed
// together via DRed), then every insertion (processed together via a
// semi-naive re-run), per spec §4.6/§6. It is a no-op if no program has
// been materialized yet beyond the raw fact edits.
func (r *Reasoner) Update(changes []Change) error {
	deletions := make(map[value.Symbol][]value.Row)
	additions := make(map[value.Symbol][]value.Row)
	for _, c := range changes {
		if c.Sign == Add {
			additions[c.Relation] = append(additions[c.Relation], c.Row)
		} else {
			deletions[c.Relation] = append(deletions[c.Relation], c.Row)
		}
	}

	if len(r.program) == 0 {
		for rel, rows := range deletions {
			for _, row := range rows {
				r.db.Delete(rel, row)
			}
		}
		for rel, rows := range additions {
			for _, row := range rows {
				_ = r.db.Insert(rel, row)
			}
		}
		return nil
	}

	_, err := r.drv.Update(r.program, deletions, additions)
	return err
}

// Evaluate runs program to fixpoint against the current fact store without
// installing it (spec §6's non-installing query): it runs against an
// independent clone of the Database, so the caller's stored facts are left
// exactly as they were; only the computed derived rows are returned.
func (r *Reasoner) Evaluate(program []ast.Rule) (map[value.Symbol][]value.Row, error) {
	if err := rewrite.Validate(program); err != nil {
		return nil, err
	}

	scratch := r.drv.Rebind(r.db.Clone())
	return scratch.Materialize(program)
}
