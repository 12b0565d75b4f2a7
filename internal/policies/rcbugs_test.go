package policies

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debarchive/britney/internal/hints"
	"github.com/debarchive/britney/internal/policy"
)

func TestRCBugsPolicy_PassesWithNoNewBugs(t *testing.T) {
	p := NewRCBugsPolicy()
	c := &policy.Candidate{Source: "foo", PolicyInfo: map[string]any{}}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictPass, v)
}

func TestRCBugsPolicy_RejectsOnRegression(t *testing.T) {
	p := NewRCBugsPolicy()
	c := &policy.Candidate{Source: "foo", BugsAdded: []int{123}, PolicyInfo: map[string]any{}}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictRejectedPermanently, v)
}

func TestRCBugsPolicy_IgnoreHintOverrides(t *testing.T) {
	store := hints.NewStore(zerolog.Nop())
	store.Load("hints/release-team", []string{"ignore-rc-bugs foo/1.0"}, "release-team", hints.PermissionAll)

	p := NewRCBugsPolicy()
	c := &policy.Candidate{Source: "foo", SourceVersion: "1.0", BugsAdded: []int{123}, PolicyInfo: map[string]any{}, Hints: store}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictPassHinted, v)
}

func TestRCBugsPolicy_IgnoreHintDoesNotCarryToLaterUpload(t *testing.T) {
	store := hints.NewStore(zerolog.Nop())
	store.Load("hints/release-team", []string{"ignore-rc-bugs foo/1.0"}, "release-team", hints.PermissionAll)

	p := NewRCBugsPolicy()
	c := &policy.Candidate{Source: "foo", SourceVersion: "1.1", BugsAdded: []int{123}, PolicyInfo: map[string]any{}, Hints: store}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictRejectedPermanently, v, "an ignore-rc-bugs hint for 1.0 must not ignore bugs on a later upload")
}
