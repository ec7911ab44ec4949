package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRank(t *testing.T) {
	assert.Less(t, StatusUnpaid.Rank(), StatusPending.Rank())
	assert.Less(t, StatusPending.Rank(), StatusPro.Rank())
	assert.Equal(t, 0, Status("bogus").Rank())
}

func TestParsePlan(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "fintech", want: PlanFintech},
		{in: " Healthcare ", want: PlanHealthcare},
		{in: "", want: PlanStandard},
		{in: "platinum", want: PlanStandard},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePlan(tt.in, PlanStandard), "ParsePlan(%q)", tt.in)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}
