package extraction

import (
	"context"
	"strings"
	"time"

	"kyc-gateway/internal/domain"
)

// MockExtractor returns deterministic fixtures keyed on filename keywords.
// Fixture names double as test scenarios: "john"/"alice" are clean locals,
// "indian"/"jane" exercise the non-local path, "expired" and "fraud" seed the
// negative government and fraud cases.
type MockExtractor struct {
	// Latency is slept per call to make fan-out visible in tests and local
	// runs. Zero means no delay.
	Latency time.Duration
}

func NewMockExtractor(latency time.Duration) *MockExtractor {
	return &MockExtractor{Latency: latency}
}

func (m *MockExtractor) Extract(ctx context.Context, req Request) Result {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return Result{Err: ctx.Err().Error()}
		}
	}

	name := strings.ToLower(req.Filename)
	hint := req.TypeHint

	switch {
	case hint == domain.DocumentVisa || containsAny(name, "visa", "work_permit", "workpermit"):
		return Result{Success: true, Fields: visaFixture()}
	case hint == domain.DocumentLivePhoto || containsAny(name, "selfie", "live_photo", "livephoto"):
		return Result{Success: true, Fields: LivenessPayload()}
	case hint == domain.DocumentPassport || strings.Contains(name, "passport"):
		return Result{Success: true, Fields: passportFixture(name)}
	default:
		return Result{Success: true, Fields: idCardFixture(name)}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// LivenessPayload is the fixed result recorded for live photos. It carries no
// identity fields and is never merged into the identity record.
func LivenessPayload() domain.Record {
	return domain.Record{
		"document_type":     "live_photo",
		"verification_type": "selfie",
		"face_detected":     "true",
		"liveness_check":    "passed",
	}
}

func visaFixture() domain.Record {
	return domain.Record{
		"document_type":   "visa",
		"visa_number":     "CJ3760864",
		"visa_type":       "DOUBLE JOURNEY",
		"first_name":      "ANAND",
		"last_name":       "KUMAR",
		"full_name":       "ANAND KUMAR",
		"passport_number": "J8365854",
		"date_of_birth":   "1985-05-24",
		"nationality":     "INDIAN",
		"gender":          "M",
		"issue_date":      "2025-01-01",
		"expiry_date":     "2027-01-01",
		"period_of_stay":  "SHORT VISIT",
		"remarks":         "Not Valid for Employment",
	}
}

func passportFixture(name string) domain.Record {
	fields := domain.Record{
		"document_type":   "passport",
		"passport_number": "J8365854",
		"first_name":      "ANAND",
		"last_name":       "KUMAR",
		"full_name":       "ANAND KUMAR",
		"date_of_birth":   "1985-05-24",
		"nationality":     "INDIAN",
		"issue_date":      "2016-01-01",
		"expiry_date":     "2026-01-01",
		"place_of_birth":  "MUMBAI, MAHARASHTRA",
		"gender":          "M",
	}
	if strings.Contains(name, "jane") {
		fields.Merge(domain.Record{
			"passport_number": "P987654321",
			"first_name":      "Jane",
			"last_name":       "Smith",
			"full_name":       "Jane Smith",
			"date_of_birth":   "1990-03-22",
			"nationality":     "US",
		})
	}
	return fields
}

func idCardFixture(name string) domain.Record {
	fields := domain.Record{
		"document_type":  "id_card",
		"id_card_number": "S1234567A",
		"first_name":     "Test",
		"last_name":      "User",
		"full_name":      "Test User",
		"date_of_birth":  "1990-01-01",
		"address":        "100 Test Street, Test City, TC 12345",
		"issue_date":     "2024-01-01",
		"expiry_date":    "2034-01-01",
		"nationality":    "SINGAPORE",
	}

	switch {
	case containsAny(name, "john", "success"):
		fields.Merge(domain.Record{
			"id_card_number": "S9876543B",
			"first_name":     "John",
			"last_name":      "Doe",
			"full_name":      "John Doe",
			"date_of_birth":  "1985-06-15",
			"address":        "123 Main St, Singapore 123456",
			"nationality":    "SINGAPORE",
		})
	case strings.Contains(name, "alice"):
		fields.Merge(domain.Record{
			"id_card_number": "S5678901C",
			"first_name":     "Alice",
			"last_name":      "Williams",
			"full_name":      "Alice Williams",
			"date_of_birth":  "1978-04-12",
			"address":        "789 Pine Rd, Singapore 789012",
			"nationality":    "SINGAPORE",
		})
	case containsAny(name, "indian", "india", "raj", "-in", "_in"):
		fields.Merge(domain.Record{
			"id_card_number": "1234-5678-9012",
			"first_name":     "ANAND",
			"last_name":      "KUMAR",
			"full_name":      "ANAND KUMAR",
			"date_of_birth":  "1985-05-24",
			"address":        "42 MG Road, Mumbai, Maharashtra 400001",
			"nationality":    "INDIA",
		})
	case strings.Contains(name, "fraud"):
		fields.Merge(domain.Record{
			"id_card_number": "FLAGGED-002",
			"first_name":     "Charlie",
			"last_name":      "Suspicious",
			"full_name":      "Charlie Suspicious",
			"address":        "111 Alert Ave, Watchlist, WL 11111",
			"date_of_birth":  "1992-05-10",
		})
	case strings.Contains(name, "expired"):
		fields.Merge(domain.Record{
			"id_card_number": "EXPIRED-001",
			"first_name":     "Bob",
			"last_name":      "Expired",
			"full_name":      "Bob Expired",
			"date_of_birth":  "1988-01-01",
			"issue_date":     "2010-01-01",
			"expiry_date":    "2020-01-01",
		})
	}
	return fields
}
