package government

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kyc-gateway/internal/domain"
	"kyc-gateway/internal/government/metrics"
)

// Service fronts the authority record store with locality-aware primary
// document selection and a lookup cache.
type Service struct {
	records RecordStore
	cache   Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService builds the verification service. cache may be nil to disable
// memoization.
func NewService(records RecordStore, cache Cache, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		records: records,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// Verify looks the application's primary document up against the authority
// and classifies the outcome. The returned result is never retried here; a
// non-verified status is authoritative for the current attempt.
func (s *Service) Verify(ctx context.Context, app domain.Application, local bool) (domain.VerificationResult, error) {
	req := s.selectPrimary(ctx, app, local)

	key := cacheKey(req)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			// A broken cache must not block verification.
			s.logger.WarnContext(ctx, "government cache read failed", "error", err)
		} else if ok {
			s.metrics.IncrementCache("hit")
			return cached, nil
		}
		s.metrics.IncrementCache("miss")
	}

	start := time.Now()
	result, err := s.records.Lookup(ctx, req)
	s.metrics.ObserveLookupLatency(time.Since(start))
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("government lookup: %w", err)
	}
	s.metrics.IncrementOutcome(string(result.Status))

	s.logger.InfoContext(ctx, "government lookup classified",
		"application_id", app.ID,
		"document_type", req.DocumentType,
		"status", result.Status,
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.WarnContext(ctx, "government cache write failed", "error", err)
		}
	}
	return result, nil
}

// selectPrimary picks the document the authority should be asked about.
// Non-locals verify their visa first; locals their national ID.
func (s *Service) selectPrimary(ctx context.Context, app domain.Application, local bool) LookupRequest {
	merged := app.Extracted
	base := LookupRequest{
		FirstName:   merged.Get("first_name"),
		LastName:    merged.Get("last_name"),
		DateOfBirth: merged.Get("date_of_birth"),
	}

	if !local {
		visaNumber := app.VisaData.Get("visa_number")
		if visaNumber == "" {
			visaNumber = merged.Get("visa_number")
		}
		if visaNumber != "" {
			base.DocumentNumber = visaNumber
			base.DocumentType = domain.DocumentVisa
			base.PassportNumber = firstNonEmpty(app.PassportData.Get("passport_number"), merged.Get("passport_number"))
			base.Nationality = merged.Get("nationality")
			base.VisaType = firstNonEmpty(app.VisaData.Get("visa_type"), merged.Get("visa_type"))
			return base
		}

		passportNumber := firstNonEmpty(app.PassportData.Get("passport_number"), merged.Get("passport_number"))
		if passportNumber != "" {
			// A non-local applicant without a visa should have been held at
			// the document gate; note it and verify the passport instead.
			s.logger.WarnContext(ctx, "non-local applicant has no visa number, falling back to passport",
				"application_id", app.ID,
			)
			base.DocumentNumber = passportNumber
			base.DocumentType = domain.DocumentPassport
			return base
		}
	}

	switch {
	case merged.Get("id_card_number") != "":
		base.DocumentNumber = merged.Get("id_card_number")
		base.DocumentType = domain.DocumentIDCard
	case merged.Get("passport_number") != "":
		base.DocumentNumber = merged.Get("passport_number")
		base.DocumentType = domain.DocumentPassport
	case merged.Get("license_number") != "":
		base.DocumentNumber = merged.Get("license_number")
		base.DocumentType = domain.DocumentDriversLicense
	default:
		base.DocumentNumber = merged.Get("document_number")
		base.DocumentType = domain.NormalizeDocumentType(merged.Get("document_type"))
	}
	return base
}

// cacheKey covers every submitted field the classification depends on, not
// just the document number: a corrected resubmission must get a fresh lookup,
// and a different applicant reusing a cached number must never inherit its
// verified result. Fields the authority compares case-insensitively are
// folded before hashing so equivalent requests share an entry.
func cacheKey(req LookupRequest) string {
	canonical := strings.Join([]string{
		string(req.DocumentType),
		strings.ToUpper(strings.TrimSpace(req.DocumentNumber)),
		strings.ToUpper(strings.TrimSpace(req.FirstName)),
		strings.ToUpper(strings.TrimSpace(req.LastName)),
		strings.TrimSpace(req.DateOfBirth),
		strings.ToUpper(strings.TrimSpace(req.PassportNumber)),
		strings.ToUpper(strings.TrimSpace(req.Nationality)),
		strings.ToUpper(strings.TrimSpace(req.VisaType)),
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return "kyc:gov:" + hex.EncodeToString(sum[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
