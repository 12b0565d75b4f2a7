package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdict_Max(t *testing.T) {
	assert.Equal(t, VerdictPass, Max(VerdictNotApplicable, VerdictPass))
	assert.Equal(t, VerdictRejectedPermanently, Max(VerdictPass, VerdictRejectedPermanently))
	assert.Equal(t, VerdictRejectedPermanently, Max(VerdictRejectedPermanently, VerdictNotApplicable))
}

func TestVerdict_IsRejected(t *testing.T) {
	assert.False(t, VerdictPass.IsRejected())
	assert.False(t, VerdictPassHinted.IsRejected())
	assert.True(t, VerdictRejectedTemporarily.IsRejected())
	assert.True(t, VerdictRejectedPermanently.IsRejected())
}

func TestVerdict_TotalOrder(t *testing.T) {
	ordered := []Verdict{
		VerdictNotApplicable, VerdictPass, VerdictPassHinted,
		VerdictRejectedTemporarily, VerdictRejectedWaitingForAnotherItem,
		VerdictRejectedBlockedByAnotherItem, VerdictRejectedNeedsApproval,
		VerdictRejectedCannotDetermineIfPermanent, VerdictRejectedPermanently,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, int(ordered[i-1]), int(ordered[i]))
	}
}
