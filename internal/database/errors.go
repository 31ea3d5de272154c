package database

import "github.com/pkg/errors"

// ErrArityMismatch is returned when a row's arity disagrees with its
// relation's established arity (spec §4.1, §4.8).
var ErrArityMismatch = errors.New("database: arity mismatch")

// ErrUnknownRelation is returned by operations that require a relation to
// already exist (spec §4.8). Mid-evaluation lookups of an unknown relation
// are not errors (spec §4.3's "yields an empty extension"); this is only
// used by APIs where absence is genuinely exceptional, such as probe.
var ErrUnknownRelation = errors.New("database: unknown relation")

// ErrIndexNotActive is returned by probe when no index is active on the
// requested column (spec §4.1: "defined only if the index is active").
var ErrIndexNotActive = errors.New("database: index not active on column")
