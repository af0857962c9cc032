package locality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kyc-gateway/internal/domain"
)

func TestCheck(t *testing.T) {
	gate := NewGate("SINGAPORE")

	tests := []struct {
		name        string
		nationality string
		wantLocal   bool
	}{
		{"exact match", "SINGAPORE", true},
		{"adjective form", "SINGAPOREAN", true},
		{"citizen form", "SINGAPORE CITIZEN", true},
		{"country code", "SG", true},
		{"lowercase input", "singaporean", true},
		{"whitespace trimmed", "  SINGAPORE  ", true},
		{"foreign nationality", "INDIAN", false},
		{"missing nationality", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.Check(domain.Record{"nationality": tt.nationality})
			assert.Equal(t, tt.wantLocal, got.Local)
		})
	}
}

func TestMissingDocuments(t *testing.T) {
	gate := NewGate("SINGAPORE")

	t.Run("passport only leaves visa and live photo", func(t *testing.T) {
		missing := gate.MissingDocuments([]domain.DocumentType{domain.DocumentPassport}, nil)
		assert.Equal(t, []domain.DocumentType{domain.DocumentVisa, domain.DocumentLivePhoto}, missing)
	})

	t.Run("synonyms satisfy requirements", func(t *testing.T) {
		missing := gate.MissingDocuments(
			[]domain.DocumentType{domain.DocumentPassport, "work_permit"},
			[]domain.DocumentType{"selfie"},
		)
		assert.Empty(t, missing)
	})

	t.Run("stored documents count", func(t *testing.T) {
		missing := gate.MissingDocuments(
			[]domain.DocumentType{domain.DocumentLivePhoto},
			[]domain.DocumentType{domain.DocumentPassport, domain.DocumentVisa},
		)
		assert.Empty(t, missing)
	})

	t.Run("present types never reappear as more documents arrive", func(t *testing.T) {
		stored := []domain.DocumentType{domain.DocumentPassport}
		first := gate.MissingDocuments(nil, stored)
		assert.Equal(t, []domain.DocumentType{domain.DocumentVisa, domain.DocumentLivePhoto}, first)

		stored = append(stored, domain.DocumentDriversLicense)
		second := gate.MissingDocuments(nil, stored)
		assert.Equal(t, first, second)
	})

	t.Run("nothing uploaded", func(t *testing.T) {
		missing := gate.MissingDocuments(nil, nil)
		assert.Equal(t, requiredForNonLocal, missing)
	})
}
