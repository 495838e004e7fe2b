package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadCeiling(t *testing.T) {
	assert.Equal(t, 15, UploadCeiling(TierFree))
	assert.Equal(t, 15, UploadCeiling(TierWeekly))
	assert.Equal(t, 20, UploadCeiling(TierMonthly))
	assert.Equal(t, -1, UploadCeiling(TierYearly))

	// Unknown tiers fall back to the free ceiling.
	assert.Equal(t, 15, UploadCeiling("platinum"))
}

func TestValidTier(t *testing.T) {
	for _, tier := range []string{TierFree, TierWeekly, TierMonthly, TierYearly} {
		assert.True(t, ValidTier(tier), tier)
	}
	assert.False(t, ValidTier("lifetime"))
	assert.False(t, ValidTier(""))
}
