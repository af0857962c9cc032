package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kyc-gateway/internal/domain"
)

func TestDecide(t *testing.T) {
	t.Run("approved only when verified and risk at most medium", func(t *testing.T) {
		levels := []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskCritical}
		for _, verified := range []bool{true, false} {
			for _, level := range levels {
				got := Decide(verified, domain.FraudAssessment{RiskLevel: level})
				wantApproved := verified && (level == domain.RiskLow || level == domain.RiskMedium)
				if wantApproved {
					assert.Equal(t, domain.DecisionApproved, got.Decision, "verified=%v level=%s", verified, level)
				} else {
					assert.Equal(t, domain.DecisionRejected, got.Decision, "verified=%v level=%s", verified, level)
				}
			}
		}
	})

	t.Run("approval reason", func(t *testing.T) {
		got := Decide(true, domain.FraudAssessment{RiskLevel: domain.RiskLow})
		assert.Equal(t, "All verification checks passed successfully.", got.Reason)
	})

	t.Run("rejection joins high and critical indicator messages", func(t *testing.T) {
		got := Decide(true, domain.FraudAssessment{
			RiskLevel: domain.RiskCritical,
			Indicators: []domain.Indicator{
				{Severity: domain.SeverityLow, Message: "ID card number does not follow expected pattern"},
				{Severity: domain.SeverityHigh, Message: "Document expired on 2020-01-01"},
				{Severity: domain.SeverityCritical, Message: "Applicant is 16 years old (under 18)"},
			},
		})
		assert.Equal(t, domain.DecisionRejected, got.Decision)
		assert.Equal(t, "High fraud risk detected: Document expired on 2020-01-01, Applicant is 16 years old (under 18)", got.Reason)
	})

	t.Run("rejection falls back to bare risk level", func(t *testing.T) {
		got := Decide(true, domain.FraudAssessment{RiskLevel: domain.RiskHigh})
		assert.Equal(t, "High fraud risk detected: high", got.Reason)
	})

	t.Run("unverified cites verification", func(t *testing.T) {
		got := Decide(false, domain.FraudAssessment{RiskLevel: domain.RiskLow})
		assert.Equal(t, "Government database verification failed.", got.Reason)
	})

	t.Run("deterministic", func(t *testing.T) {
		assessment := domain.FraudAssessment{
			RiskLevel:  domain.RiskHigh,
			Indicators: []domain.Indicator{{Severity: domain.SeverityHigh, Message: "x"}},
		}
		assert.Equal(t, Decide(true, assessment), Decide(true, assessment))
	})
}
