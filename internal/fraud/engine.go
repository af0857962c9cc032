// Package fraud scores an application for fraud risk by accumulating
// independent indicator checks into a bounded score.
package fraud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kyc-gateway/internal/domain"
	"kyc-gateway/pkg/requestcontext"
)

const dateLayout = "2006-01-02"

// Input gathers everything the engine scores over. GovStatus is optional:
// the workflow short-circuits non-verified lookups before fraud scoring, but
// standalone callers may supply it for defense in depth. PassportData and
// VisaData are the per-type snapshots; cross-document checks only run when
// both are present.
type Input struct {
	Record domain.Record

	GovVerified bool
	GovStatus   domain.VerificationStatus

	// VisaVerified is a three-state flag: nil means no separate visa
	// verification happened.
	VisaVerified *bool

	PassportData domain.Record
	VisaData     domain.Record
}

// Engine runs the indicator checks. It is stateless; the only ambient input
// is the request clock, so assessments are reproducible in tests.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Assess evaluates every check, clamps the aggregate score to [0,1] and
// derives the risk level. Indicator order follows check order and is stable.
func (e *Engine) Assess(ctx context.Context, in Input) domain.FraudAssessment {
	today := requestcontext.Now(ctx)
	var indicators []domain.Indicator
	score := 0.0

	add := func(delta float64, ind domain.Indicator) {
		indicators = append(indicators, ind)
		score += delta
	}

	// Document expiry.
	if expiry := in.Record.Get("expiry_date"); expiry != "" {
		if parsed, err := time.Parse(dateLayout, expiry); err != nil {
			add(0.2, domain.Indicator{
				Type:     "invalid_date_format",
				Severity: domain.SeverityMedium,
				Message:  "Invalid expiry date format",
			})
		} else if parsed.Before(today) {
			add(0.4, domain.Indicator{
				Type:     "expired_document",
				Severity: domain.SeverityHigh,
				Message:  fmt.Sprintf("Document expired on %s", expiry),
			})
		}
	}

	// Age plausibility.
	if dob := in.Record.Get("date_of_birth"); dob != "" {
		if parsed, err := time.Parse(dateLayout, dob); err != nil {
			add(0.2, domain.Indicator{
				Type:     "invalid_dob_format",
				Severity: domain.SeverityMedium,
				Message:  "Invalid date of birth format",
			})
		} else {
			age := int(today.Sub(parsed).Hours()/24) / 365
			if age < 18 {
				add(0.5, domain.Indicator{
					Type:     "underage",
					Severity: domain.SeverityCritical,
					Message:  fmt.Sprintf("Applicant is %d years old (under 18)", age),
				})
			} else if age > 100 {
				add(0.3, domain.Indicator{
					Type:     "suspicious_age",
					Severity: domain.SeverityHigh,
					Message:  fmt.Sprintf("Applicant age (%d) is unusually high", age),
				})
			}
		}
	}

	// Government status re-penalization for standalone callers. The primary
	// flow never reaches here with a failed lookup.
	if !in.GovVerified {
		switch in.GovStatus {
		case domain.VerificationNotFound:
			add(0.4, domain.Indicator{
				Type:     "document_not_in_government_db",
				Severity: domain.SeverityHigh,
				Message:  "Document not found in government database",
			})
		case domain.VerificationFlagged:
			add(0.6, domain.Indicator{
				Type:     "government_flagged",
				Severity: domain.SeverityCritical,
				Message:  "Document is flagged in government database",
			})
		case domain.VerificationMismatch:
			add(0.4, domain.Indicator{
				Type:     "data_mismatch",
				Severity: domain.SeverityHigh,
				Message:  "Data does not match government records",
			})
		case domain.VerificationInvalid:
			add(0.5, domain.Indicator{
				Type:     "invalid_document",
				Severity: domain.SeverityCritical,
				Message:  "Document marked as invalid in government records",
			})
		}
	}

	// Document number convention.
	docType := domain.NormalizeDocumentType(in.Record.Get("document_type"))
	number := in.Record.Get(docType.NumberField())
	if number == "" {
		number = in.Record.Get("document_number")
	}
	if docType == domain.DocumentIDCard && !strings.HasPrefix(number, "ID-") {
		add(0.1, domain.Indicator{
			Type:     "suspicious_document_number",
			Severity: domain.SeverityLow,
			Message:  "ID card number does not follow expected pattern",
		})
	} else if docType == domain.DocumentPassport && !strings.HasPrefix(number, "PASS-") {
		add(0.1, domain.Indicator{
			Type:     "suspicious_document_number",
			Severity: domain.SeverityLow,
			Message:  "Passport number does not follow expected pattern",
		})
	}

	// Name sanity, each name independently.
	if first := in.Record.Get("first_name"); first != "" && suspiciousName(first) {
		add(0.2, domain.Indicator{
			Type:     "suspicious_name",
			Severity: domain.SeverityMedium,
			Message:  "First name appears suspicious",
		})
	}
	if last := in.Record.Get("last_name"); last != "" && suspiciousName(last) {
		add(0.2, domain.Indicator{
			Type:     "suspicious_name",
			Severity: domain.SeverityMedium,
			Message:  "Last name appears suspicious",
		})
	}

	// Separate visa verification outcome.
	if in.VisaVerified != nil && !*in.VisaVerified {
		add(0.4, domain.Indicator{
			Type:     "visa_not_verified",
			Severity: domain.SeverityHigh,
			Message:  "Visa could not be verified in immigration database",
		})
	}

	// Cross-document consistency between the passport and visa snapshots.
	if len(in.PassportData) > 0 && len(in.VisaData) > 0 {
		indicators, score = e.crossValidate(in.PassportData, in.VisaData, indicators, score)
	}

	if score > 1.0 {
		score = 1.0
	}
	level := domain.RiskLevelFor(score)

	if e.logger != nil {
		e.logger.InfoContext(ctx, "fraud assessment computed",
			"risk_score", score,
			"risk_level", level,
			"indicators", len(indicators),
		)
	}

	return domain.FraudAssessment{
		Indicators:     indicators,
		RiskScore:      score,
		RiskLevel:      level,
		FraudDetected:  level == domain.RiskHigh || level == domain.RiskCritical,
		Recommendation: recommendationFor(level),
	}
}

func (e *Engine) crossValidate(passport, visa domain.Record, indicators []domain.Indicator, score float64) ([]domain.Indicator, float64) {
	add := func(delta float64, ind domain.Indicator) {
		indicators = append(indicators, ind)
		score += delta
	}

	passportFirst := normalizeName(passport.Get("first_name"))
	visaFirst := normalizeName(visa.Get("first_name"))
	if passportFirst != "" && visaFirst != "" && passportFirst != visaFirst {
		add(0.3, domain.Indicator{
			Type:     "name_mismatch_passport_visa",
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("First name mismatch: passport '%s' vs visa '%s'", passport.Get("first_name"), visa.Get("first_name")),
		})
	}

	passportLast := normalizeName(passport.Get("last_name"))
	visaLast := normalizeName(visa.Get("last_name"))
	if passportLast != "" && visaLast != "" && passportLast != visaLast {
		add(0.3, domain.Indicator{
			Type:     "name_mismatch_passport_visa",
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("Last name mismatch: passport '%s' vs visa '%s'", passport.Get("last_name"), visa.Get("last_name")),
		})
	}

	passportDOB := passport.Get("date_of_birth")
	visaDOB := visa.Get("date_of_birth")
	if passportDOB != "" && visaDOB != "" && passportDOB != visaDOB {
		add(0.3, domain.Indicator{
			Type:     "dob_mismatch_passport_visa",
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("Date of birth mismatch: passport '%s' vs visa '%s'", passportDOB, visaDOB),
		})
	}

	// The passport number printed on the visa must match the passport's own
	// number. A disagreement suggests a stolen or forged visa, the single
	// most severe indicator.
	visaPassportNum := strings.ToUpper(strings.TrimSpace(firstNonEmpty(visa.Get("passport_number"), visa.Get("document_number"))))
	passportNum := strings.ToUpper(strings.TrimSpace(passport.Get("passport_number")))
	if visaPassportNum != "" && passportNum != "" && visaPassportNum != passportNum {
		add(0.5, domain.Indicator{
			Type:     "passport_number_mismatch",
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("Passport number on visa '%s' does not match actual passport '%s'", visaPassportNum, passportNum),
		})
	}

	passportNat := strings.ToUpper(strings.TrimSpace(passport.Get("nationality")))
	visaNat := strings.ToUpper(strings.TrimSpace(visa.Get("nationality")))
	if passportNat != "" && visaNat != "" && passportNat != visaNat {
		add(0.2, domain.Indicator{
			Type:     "nationality_mismatch",
			Severity: domain.SeverityMedium,
			Message:  fmt.Sprintf("Nationality mismatch: passport '%s' vs visa '%s'", passportNat, visaNat),
		})
	}

	return indicators, score
}

func suspiciousName(name string) bool {
	if len(name) < 2 {
		return true
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func recommendationFor(level domain.RiskLevel) string {
	switch level {
	case domain.RiskCritical:
		return "REJECT: Critical fraud indicators detected. Manual review required."
	case domain.RiskHigh:
		return "REJECT: High-risk indicators detected. Recommend rejection."
	case domain.RiskMedium:
		return "REVIEW: Medium-risk indicators present. Manual review recommended."
	default:
		return "PROCEED: Low risk. Safe to proceed with approval."
	}
}
