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

func TestAgePolicy_PassesWhenOldEnough(t *testing.T) {
	p := NewAgePolicy(map[string]int{"low": 10}, 5, func(string, string) string { return "low" })
	c := &policy.Candidate{Source: "foo", AgeDays: 12, PolicyInfo: map[string]any{}}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictPass, v)
}

func TestAgePolicy_RejectsWhenTooYoung(t *testing.T) {
	p := NewAgePolicy(map[string]int{"low": 10}, 5, func(string, string) string { return "low" })
	c := &policy.Candidate{Source: "foo", AgeDays: 2, PolicyInfo: map[string]any{}}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictRejectedTemporarily, v)
	assert.Contains(t, c.Reasons, "age")
}

func TestAgePolicy_UrgentHintZeroesMinAge(t *testing.T) {
	store := hints.NewStore(zerolog.Nop())
	store.Load("hints/release-team", []string{"urgent foo/1.0"}, "release-team", hints.PermissionAll)

	p := NewAgePolicy(map[string]int{"low": 10}, 5, func(string, string) string { return "low" })
	c := &policy.Candidate{Source: "foo", SourceVersion: "1.0", AgeDays: 0, PolicyInfo: map[string]any{}, Hints: store}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictPass, v)
}

func TestAgePolicy_UrgentHintDoesNotApplyToOtherVersion(t *testing.T) {
	store := hints.NewStore(zerolog.Nop())
	store.Load("hints/release-team", []string{"urgent foo/1.0"}, "release-team", hints.PermissionAll)

	p := NewAgePolicy(map[string]int{"low": 10}, 5, func(string, string) string { return "low" })
	c := &policy.Candidate{Source: "foo", SourceVersion: "2.0", AgeDays: 0, PolicyInfo: map[string]any{}, Hints: store}
	v, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, policy.VerdictRejectedTemporarily, v)
}

func TestAgePolicy_ForceHintSetsForcedFlag(t *testing.T) {
	store := hints.NewStore(zerolog.Nop())
	store.Load("hints/release-team", []string{"force foo/1.0"}, "release-team", hints.PermissionAll)

	p := NewAgePolicy(map[string]int{"low": 10}, 5, func(string, string) string { return "low" })
	c := &policy.Candidate{Source: "foo", SourceVersion: "1.0", AgeDays: 0, PolicyInfo: map[string]any{}, Hints: store}
	_, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, c.Forced)
}

func TestAgePolicy_ForceHintDoesNotCarryToLaterUpload(t *testing.T) {
	store := hints.NewStore(zerolog.Nop())
	store.Load("hints/release-team", []string{"force foo/1.0"}, "release-team", hints.PermissionAll)

	p := NewAgePolicy(map[string]int{"low": 10}, 5, func(string, string) string { return "low" })
	c := &policy.Candidate{Source: "foo", SourceVersion: "1.1", AgeDays: 0, PolicyInfo: map[string]any{}, Hints: store}
	_, err := p.Check(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, c.Forced, "a force hint for 1.0 must not force a later upload of the same source")
}
