package policies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/policy"
)

func TestPiupartsPolicy_FailRejectsPermanently(t *testing.T) {
	p := NewPiupartsPolicy(func(source, version string) PiupartsStatus { return PiupartsFail })
	c := &policy.Candidate{Source: "foo", PolicyInfo: map[string]any{}}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictRejectedPermanently, v)
}

func TestPiupartsPolicy_UnknownIsNotApplicable(t *testing.T) {
	p := NewPiupartsPolicy(func(source, version string) PiupartsStatus { return PiupartsUnknown })
	c := &policy.Candidate{Source: "foo", PolicyInfo: map[string]any{}}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictNotApplicable, v)
}

func TestPiupartsPolicy_PassOnSuccess(t *testing.T) {
	p := NewPiupartsPolicy(func(source, version string) PiupartsStatus { return PiupartsPass })
	c := &policy.Candidate{Source: "foo", PolicyInfo: map[string]any{}}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictPass, v)
}
