package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForBoundariesAreInclusive(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0.0, RiskLow},
		{0.19, RiskLow},
		{0.2, RiskMedium},
		{0.39, RiskMedium},
		{0.4, RiskHigh},
		{0.69, RiskHigh},
		{0.7, RiskCritical},
		{1.0, RiskCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RiskLevelFor(tc.score), "score %.2f", tc.score)
	}
}
