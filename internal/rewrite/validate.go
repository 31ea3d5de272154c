package rewrite

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/depgraph"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// Sentinel causes wrapped by Validate; callers match with errors.Is.
var (
	ErrUnsafeRule        = errors.New("rule is unsafe: a head variable is unbound by any positive body atom")
	ErrArityMismatch     = errors.New("relation used with inconsistent arity across the program")
	ErrUnstratifiable    = errors.New("program is not stratifiable: negation through a recursive cycle")
)

// Validate checks a program against every compile-time invariant in spec
// §4.8 before it is installed: rule safety, arity consistency of every
// relation across all its uses, and stratifiability of negation. All
// violations found are collected and returned together via
// *multierror.Error, the way hashicorp/nomad's job-validation path
// aggregates independent scheduling constraint violations rather than
// failing fast on the first one.
func Validate(program []ast.Rule) error {
	var result *multierror.Error

	for i, r := range program {
		if !r.Safe() {
			result = multierror.Append(result, errors.Wrapf(ErrUnsafeRule, "rule %d (%s)", i, r.Head.String(nil)))
		}
	}

	if err := checkArities(program); err != nil {
		result = multierror.Append(result, err)
	}

	strat := depgraph.Build(program).Stratify()
	if !strat.Stratified {
		result = multierror.Append(result, ErrUnstratifiable)
	}

	return result.ErrorOrNil()
}

// checkArities reports ErrArityMismatch, wrapped per offending relation, if
// any relation symbol is applied with two different arities anywhere in the
// program (head or body).
func checkArities(program []ast.Rule) error {
	seen := make(map[value.Symbol]int)
	var result *multierror.Error

	check := func(a ast.Atom) {
		n := a.Arity()
		if prev, ok := seen[a.Relation]; ok && prev != n {
			result = multierror.Append(result, errors.Wrapf(ErrArityMismatch, "relation %d: arity %d vs %d", a.Relation, prev, n))
			return
		}
		seen[a.Relation] = n
	}

	for _, r := range program {
		check(r.Head)
		for _, b := range r.Body {
			check(b)
		}
	}
	return result.ErrorOrNil()
}
