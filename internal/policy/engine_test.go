package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fixedPolicy struct {
	name    string
	verdict Verdict
	err     error
}

func (f fixedPolicy) Name() string { return f.name }
func (f fixedPolicy) Check(_ context.Context, _ *Candidate) (Verdict, error) {
	return f.verdict, f.err
}

func TestEngine_TakesMaximumAcrossPolicies(t *testing.T) {
	e := NewEngine(zerolog.Nop(),
		fixedPolicy{name: "a", verdict: VerdictPass},
		fixedPolicy{name: "b", verdict: VerdictRejectedTemporarily},
		fixedPolicy{name: "c", verdict: VerdictPass},
	)
	c := &Candidate{PolicyInfo: map[string]any{}}
	v := e.Evaluate(context.Background(), c)
	assert.Equal(t, VerdictRejectedTemporarily, v)
}

func TestEngine_PolicyErrorDegradesToTemporaryRejection(t *testing.T) {
	e := NewEngine(zerolog.Nop(), fixedPolicy{name: "flaky", err: errors.New("boom")})
	c := &Candidate{PolicyInfo: map[string]any{}}
	v := e.Evaluate(context.Background(), c)
	assert.Equal(t, VerdictRejectedTemporarily, v)
}

func TestEngine_ForcedOverridesRejection(t *testing.T) {
	e := NewEngine(zerolog.Nop(), fixedPolicy{name: "a", verdict: VerdictRejectedPermanently})
	c := &Candidate{PolicyInfo: map[string]any{}, Forced: true}
	v := e.Evaluate(context.Background(), c)
	assert.Equal(t, VerdictPassHinted, v)
}

func TestEngine_PenaltyOverrideConvertsPermanentRejectionToPass(t *testing.T) {
	e := NewEngine(zerolog.Nop(), fixedPolicy{name: "a", verdict: VerdictRejectedPermanently})
	c := &Candidate{PolicyInfo: map[string]any{}, Penalty: 150}
	v := e.Evaluate(context.Background(), c)
	assert.Equal(t, VerdictPass, v)
}
