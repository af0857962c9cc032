package fraud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kyc-gateway/internal/domain"
	"kyc-gateway/pkg/requestcontext"
)

type EngineSuite struct {
	suite.Suite

	engine *Engine
	ctx    context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine(nil)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC))
}

// cleanRecord fires no indicators on its own.
func cleanRecord() domain.Record {
	return domain.Record{
		"document_type":  "id_card",
		"id_card_number": "ID-2024-001234",
		"first_name":     "John",
		"last_name":      "Doe",
		"date_of_birth":  "1985-06-15",
		"expiry_date":    "2034-01-01",
	}
}

func (s *EngineSuite) TestCleanApplicationScoresZero() {
	got := s.engine.Assess(s.ctx, Input{Record: cleanRecord(), GovVerified: true})

	s.Empty(got.Indicators)
	s.Zero(got.RiskScore)
	s.Equal(domain.RiskLow, got.RiskLevel)
	s.False(got.FraudDetected)
	s.Equal("PROCEED: Low risk. Safe to proceed with approval.", got.Recommendation)
}

func (s *EngineSuite) TestExpiredDocumentLandsExactlyOnHighBoundary() {
	record := cleanRecord()
	record["expiry_date"] = "2020-01-01"

	got := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Require().Len(got.Indicators, 1)
	s.Equal("expired_document", got.Indicators[0].Type)
	s.Equal(domain.SeverityHigh, got.Indicators[0].Severity)
	s.InDelta(0.4, got.RiskScore, 1e-9)
	// 0.4 sits on the inclusive high threshold.
	s.Equal(domain.RiskHigh, got.RiskLevel)
	s.True(got.FraudDetected)
}

func (s *EngineSuite) TestUnparseableExpiryFormat() {
	record := cleanRecord()
	record["expiry_date"] = "01/01/2034"

	got := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Require().Len(got.Indicators, 1)
	s.Equal("invalid_date_format", got.Indicators[0].Type)
	s.InDelta(0.2, got.RiskScore, 1e-9)
	s.Equal(domain.RiskMedium, got.RiskLevel)
}

func (s *EngineSuite) TestUnderageApplicantIsCritical() {
	record := cleanRecord()
	record["date_of_birth"] = "2010-01-01"

	got := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Require().Len(got.Indicators, 1)
	s.Equal("underage", got.Indicators[0].Type)
	s.Equal(domain.SeverityCritical, got.Indicators[0].Severity)
	s.InDelta(0.5, got.RiskScore, 1e-9)
	s.True(got.FraudDetected)
}

func (s *EngineSuite) TestImplausiblyOldApplicant() {
	record := cleanRecord()
	record["date_of_birth"] = "1920-01-01"

	got := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Require().Len(got.Indicators, 1)
	s.Equal("suspicious_age", got.Indicators[0].Type)
	s.InDelta(0.3, got.RiskScore, 1e-9)
}

func (s *EngineSuite) TestGovernmentStatusRePenalizedForStandaloneCallers() {
	tests := []struct {
		status   domain.VerificationStatus
		delta    float64
		indType  string
		severity domain.Severity
	}{
		{domain.VerificationNotFound, 0.4, "document_not_in_government_db", domain.SeverityHigh},
		{domain.VerificationFlagged, 0.6, "government_flagged", domain.SeverityCritical},
		{domain.VerificationMismatch, 0.4, "data_mismatch", domain.SeverityHigh},
		{domain.VerificationInvalid, 0.5, "invalid_document", domain.SeverityCritical},
	}
	for _, tt := range tests {
		s.Run(string(tt.status), func() {
			got := s.engine.Assess(s.ctx, Input{Record: cleanRecord(), GovStatus: tt.status})

			s.Require().Len(got.Indicators, 1)
			s.Equal(tt.indType, got.Indicators[0].Type)
			s.Equal(tt.severity, got.Indicators[0].Severity)
			s.InDelta(tt.delta, got.RiskScore, 1e-9)
		})
	}
}

func (s *EngineSuite) TestGovernmentStatusIgnoredWhenVerified() {
	got := s.engine.Assess(s.ctx, Input{
		Record:      cleanRecord(),
		GovVerified: true,
		GovStatus:   domain.VerificationFlagged,
	})
	s.Empty(got.Indicators)
}

func (s *EngineSuite) TestDocumentNumberConvention() {
	record := cleanRecord()
	record["id_card_number"] = "S9876543B"

	got := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Require().Len(got.Indicators, 1)
	s.Equal("suspicious_document_number", got.Indicators[0].Type)
	s.Equal(domain.SeverityLow, got.Indicators[0].Severity)
	s.InDelta(0.1, got.RiskScore, 1e-9)
	s.Equal(domain.RiskLow, got.RiskLevel)
}

func (s *EngineSuite) TestSuspiciousNamesScoreIndependently() {
	record := cleanRecord()
	record["first_name"] = "J"
	record["last_name"] = "42"

	got := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Len(got.Indicators, 2)
	s.InDelta(0.4, got.RiskScore, 1e-9)
	s.Equal(domain.RiskHigh, got.RiskLevel)
}

func (s *EngineSuite) TestUnverifiedVisa() {
	visaVerified := false
	got := s.engine.Assess(s.ctx, Input{
		Record:       cleanRecord(),
		GovVerified:  true,
		VisaVerified: &visaVerified,
	})

	s.Require().Len(got.Indicators, 1)
	s.Equal("visa_not_verified", got.Indicators[0].Type)
	s.InDelta(0.4, got.RiskScore, 1e-9)
}

func (s *EngineSuite) TestCrossDocumentLastNameMismatch() {
	got := s.engine.Assess(s.ctx, Input{
		Record:      cleanRecord(),
		GovVerified: true,
		PassportData: domain.Record{
			"passport_number": "J8365854",
			"first_name":      "ANAND",
			"last_name":       "KUMAR",
			"date_of_birth":   "1985-05-24",
			"nationality":     "INDIAN",
		},
		VisaData: domain.Record{
			"passport_number": "J8365854",
			"first_name":      "ANAND",
			"last_name":       "SHARMA",
			"date_of_birth":   "1985-05-24",
			"nationality":     "INDIAN",
		},
	})

	s.Require().Len(got.Indicators, 1)
	s.Equal("name_mismatch_passport_visa", got.Indicators[0].Type)
	s.Equal(domain.SeverityHigh, got.Indicators[0].Severity)
	s.InDelta(0.3, got.RiskScore, 1e-9)
}

func (s *EngineSuite) TestPassportNumberOnVisaDisagrees() {
	got := s.engine.Assess(s.ctx, Input{
		Record:      cleanRecord(),
		GovVerified: true,
		PassportData: domain.Record{
			"passport_number": "J8365854",
			"first_name":      "ANAND",
			"last_name":       "KUMAR",
		},
		VisaData: domain.Record{
			"passport_number": "X1111111",
			"first_name":      "ANAND",
			"last_name":       "KUMAR",
		},
	})

	s.Require().Len(got.Indicators, 1)
	s.Equal("passport_number_mismatch", got.Indicators[0].Type)
	s.Equal(domain.SeverityCritical, got.Indicators[0].Severity)
	s.InDelta(0.5, got.RiskScore, 1e-9)
}

func (s *EngineSuite) TestCrossDocumentCaseInsensitive() {
	got := s.engine.Assess(s.ctx, Input{
		Record:       cleanRecord(),
		GovVerified:  true,
		PassportData: domain.Record{"first_name": "Anand", "nationality": "indian"},
		VisaData:     domain.Record{"first_name": "ANAND", "nationality": "INDIAN"},
	})
	s.Empty(got.Indicators)
}

func (s *EngineSuite) TestScoreClampedToOne() {
	record := cleanRecord()
	record["expiry_date"] = "2020-01-01"   // +0.4
	record["date_of_birth"] = "2010-01-01" // +0.5
	record["first_name"] = "1"             // +0.2
	record["last_name"] = "2"              // +0.2

	got := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Equal(1.0, got.RiskScore)
	s.Equal(domain.RiskCritical, got.RiskLevel)
	s.True(got.FraudDetected)
}

func (s *EngineSuite) TestAssessmentIsDeterministic() {
	record := cleanRecord()
	record["expiry_date"] = "2020-01-01"

	first := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})
	second := s.engine.Assess(s.ctx, Input{Record: record, GovVerified: true})

	s.Equal(first, second)
}
