package domain

// Severity ranks a single fraud indicator.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskLevel is derived from the aggregate risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Indicator is one fraud-signal finding.
type Indicator struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// FraudAssessment aggregates indicator findings into a bounded score.
type FraudAssessment struct {
	Indicators     []Indicator `json:"fraud_indicators"`
	RiskScore      float64     `json:"risk_score"`
	RiskLevel      RiskLevel   `json:"risk_level"`
	FraudDetected  bool        `json:"fraud_detected"`
	Recommendation string      `json:"recommendation"`
}

// RiskLevelFor maps a clamped score onto a level. Boundaries are inclusive:
// a score of exactly 0.4 is high, not medium.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 0.7:
		return RiskCritical
	case score >= 0.4:
		return RiskHigh
	case score >= 0.2:
		return RiskMedium
	default:
		return RiskLow
	}
}
