package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillingCycleDays(t *testing.T) {
	assert.Equal(t, 30, BillingCycleMonthly.Days())
	assert.Equal(t, 365, BillingCycleYearly.Days())
	// unknown cycles fall back to the monthly term
	assert.Equal(t, 30, BillingCycle("weekly").Days())
}
