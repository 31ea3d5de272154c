package evalconformance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinawalsh/reasoner/internal/evalalgebra"
	"github.com/kevinawalsh/reasoner/internal/evalsubst"
	"github.com/kevinawalsh/reasoner/internal/intern"
)

const trials = 300

func TestEvaluatorsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(Seed))

	for trial := 0; trial < trials; trial++ {
		in := intern.NewTable()
		program, db := GenerateCase(rng, in)

		substResult := Canon(evalsubst.EvaluateProgram(db, program))
		algebraResult := Canon(evalalgebra.EvaluateProgram(db, program))

		require.Equalf(t, substResult, algebraResult, "trial %d disagreed on program %v", trial, program)
	}
}
