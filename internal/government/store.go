package government

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kyc-gateway/internal/domain"
)

// LookupRequest carries the submitted identity for one record lookup. The
// passport/nationality/visa-type fields are only set for visa lookups, where
// the authority cross-references the visa against the holder's passport.
type LookupRequest struct {
	DocumentNumber string
	DocumentType   domain.DocumentType
	FirstName      string
	LastName       string
	DateOfBirth    string

	PassportNumber string
	Nationality    string
	VisaType       string
}

// RecordStore is the authoritative government record source. Errors are
// transport failures only; a missing or disagreeing record is a classified
// VerificationResult, not an error.
type RecordStore interface {
	Lookup(ctx context.Context, req LookupRequest) (domain.VerificationResult, error)
}

// Record is one row of the mock authority database.
type Record struct {
	DocumentNumber string
	DocumentType   domain.DocumentType
	FirstName      string
	LastName       string
	DateOfBirth    string
	Address        string
	IsValid        bool
	IsFlagged      bool
	FlagReason     string

	// Cross-reference fields for visa records.
	PassportNumber string
	Nationality    string
	VisaType       string
}

// MockRecordStore is an in-memory authority keyed by document number. Checks
// run in a fixed order: existence, validity, flag status, then field match,
// so an invalid record reports invalid even when it is also flagged-adjacent
// or mismatching.
type MockRecordStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMockRecordStore seeds the store with the standard test population:
// clean locals, the ANAND KUMAR passport/visa pair, and the negative records
// that drive the invalid/flagged/mismatch paths.
func NewMockRecordStore() *MockRecordStore {
	store := &MockRecordStore{records: make(map[string]Record)}
	for _, record := range seedRecords {
		store.records[record.DocumentNumber] = record
	}
	return store
}

var seedRecords = []Record{
	{
		DocumentNumber: "S9876543B",
		DocumentType:   domain.DocumentIDCard,
		FirstName:      "John",
		LastName:       "Doe",
		DateOfBirth:    "1985-06-15",
		Address:        "123 Main St, Singapore 123456",
		IsValid:        true,
	},
	{
		DocumentNumber: "S5678901C",
		DocumentType:   domain.DocumentIDCard,
		FirstName:      "Alice",
		LastName:       "Williams",
		DateOfBirth:    "1978-04-12",
		Address:        "789 Pine Rd, Singapore 789012",
		IsValid:        true,
	},
	{
		DocumentNumber: "123456789",
		DocumentType:   domain.DocumentIDCard,
		FirstName:      "MARIE",
		LastName:       "JUMIO",
		DateOfBirth:    "1975-01-01",
		Address:        "SINGAPORE",
		IsValid:        true,
	},
	{
		DocumentNumber: "J8365854",
		DocumentType:   domain.DocumentPassport,
		FirstName:      "ANAND",
		LastName:       "KUMAR",
		DateOfBirth:    "1985-05-24",
		Nationality:    "INDIAN",
		IsValid:        true,
	},
	{
		DocumentNumber: "CJ3760864",
		DocumentType:   domain.DocumentVisa,
		FirstName:      "ANAND",
		LastName:       "KUMAR",
		DateOfBirth:    "1985-05-24",
		Nationality:    "INDIAN",
		PassportNumber: "J8365854",
		VisaType:       "DOUBLE JOURNEY",
		IsValid:        true,
	},
	{
		DocumentNumber: "EXPIRED-001",
		DocumentType:   domain.DocumentIDCard,
		FirstName:      "Bob",
		LastName:       "Expired",
		DateOfBirth:    "1988-01-01",
		IsValid:        false,
		FlagReason:     "Document expired",
	},
	{
		DocumentNumber: "FLAGGED-002",
		DocumentType:   domain.DocumentIDCard,
		FirstName:      "Charlie",
		LastName:       "Suspicious",
		DateOfBirth:    "1992-05-10",
		IsValid:        true,
		IsFlagged:      true,
		FlagReason:     "Identity theft report filed on 2024-01-15",
	},
	{
		DocumentNumber: "PASS-REVOKED-003",
		DocumentType:   domain.DocumentPassport,
		FirstName:      "David",
		LastName:       "Blocked",
		DateOfBirth:    "1985-11-20",
		IsValid:        false,
		IsFlagged:      true,
		FlagReason:     "Passport revoked due to fraud investigation",
	},
	{
		DocumentNumber: "ID-MISMATCH-004",
		DocumentType:   domain.DocumentIDCard,
		FirstName:      "Eve",
		LastName:       "Discrepancy",
		DateOfBirth:    "1991-03-15",
		IsValid:        false,
		FlagReason:     "Document data mismatch with government records",
	},
}

// Put adds or replaces a record. Tests use it to stage bespoke rows.
func (s *MockRecordStore) Put(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.DocumentNumber] = record
}

func (s *MockRecordStore) Lookup(_ context.Context, req LookupRequest) (domain.VerificationResult, error) {
	s.mu.RLock()
	record, ok := s.records[req.DocumentNumber]
	s.mu.RUnlock()

	if !ok {
		return domain.VerificationResult{
			Status:  domain.VerificationNotFound,
			Message: fmt.Sprintf("No government record found for document number: %s", req.DocumentNumber),
			Details: map[string]any{
				"document_number": req.DocumentNumber,
				"document_type":   string(req.DocumentType),
			},
		}, nil
	}

	if !record.IsValid {
		reason := record.FlagReason
		if reason == "" {
			reason = "Unknown reason"
		}
		return domain.VerificationResult{
			Status:  domain.VerificationInvalid,
			Message: fmt.Sprintf("Document is not valid: %s", reason),
			Details: map[string]any{
				"document_number": req.DocumentNumber,
				"flag_reason":     record.FlagReason,
			},
		}, nil
	}

	if record.IsFlagged {
		return domain.VerificationResult{
			Status:  domain.VerificationFlagged,
			Message: fmt.Sprintf("Document is flagged: %s", record.FlagReason),
			Details: map[string]any{
				"document_number": req.DocumentNumber,
				"flag_reason":     record.FlagReason,
				"is_flagged":      true,
			},
		}, nil
	}

	var mismatches []string
	if !strings.EqualFold(record.FirstName, req.FirstName) || !strings.EqualFold(record.LastName, req.LastName) {
		mismatches = append(mismatches, fmt.Sprintf("Name mismatch: expected %s %s", record.FirstName, record.LastName))
	}
	if record.DateOfBirth != req.DateOfBirth {
		mismatches = append(mismatches, fmt.Sprintf("DOB mismatch: expected %s", record.DateOfBirth))
	}
	if record.DocumentType != req.DocumentType {
		mismatches = append(mismatches, fmt.Sprintf("Document type mismatch: expected %s", record.DocumentType))
	}
	if req.DocumentType == domain.DocumentVisa {
		if req.PassportNumber != "" && record.PassportNumber != "" && !strings.EqualFold(record.PassportNumber, req.PassportNumber) {
			mismatches = append(mismatches, fmt.Sprintf("Passport cross-reference mismatch: expected %s", record.PassportNumber))
		}
		if req.Nationality != "" && record.Nationality != "" && !strings.EqualFold(record.Nationality, req.Nationality) {
			mismatches = append(mismatches, fmt.Sprintf("Nationality mismatch: expected %s", record.Nationality))
		}
	}

	if len(mismatches) > 0 {
		return domain.VerificationResult{
			Status:  domain.VerificationMismatch,
			Message: "Document data does not match government records",
			Details: map[string]any{
				"document_number": req.DocumentNumber,
				"mismatches":      mismatches,
			},
		}, nil
	}

	return domain.VerificationResult{
		Verified: true,
		Status:   domain.VerificationVerified,
		Message:  "Document successfully verified against government database",
		Details: map[string]any{
			"document_number": req.DocumentNumber,
			"document_type":   string(req.DocumentType),
			"name_verified":   true,
			"dob_verified":    true,
		},
	}, nil
}
