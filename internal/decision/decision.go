// Package decision renders the final verdict from verification and fraud
// outcomes.
package decision

import (
	"fmt"
	"strings"

	"kyc-gateway/internal/domain"
)

// Outcome is the authoritative decision with its controlling reason.
type Outcome struct {
	Decision domain.Decision
	Reason   string
}

// Decide applies the decision law: approved iff verification passed and risk
// is low or medium. Recomputing from the same inputs always yields the same
// outcome. The reason cites the controlling factor; high and critical
// indicator messages are joined when risk drives a rejection.
func Decide(verified bool, assessment domain.FraudAssessment) Outcome {
	if !verified {
		// The workflow stops failed verifications before scoring, so this
		// branch only serves standalone callers.
		return Outcome{
			Decision: domain.DecisionRejected,
			Reason:   "Government database verification failed.",
		}
	}

	if assessment.RiskLevel == domain.RiskHigh || assessment.RiskLevel == domain.RiskCritical {
		var messages []string
		for _, ind := range assessment.Indicators {
			if ind.Severity == domain.SeverityHigh || ind.Severity == domain.SeverityCritical {
				messages = append(messages, ind.Message)
			}
		}
		detail := strings.Join(messages, ", ")
		if detail == "" {
			detail = string(assessment.RiskLevel)
		}
		return Outcome{
			Decision: domain.DecisionRejected,
			Reason:   fmt.Sprintf("High fraud risk detected: %s", detail),
		}
	}

	return Outcome{
		Decision: domain.DecisionApproved,
		Reason:   "All verification checks passed successfully.",
	}
}
