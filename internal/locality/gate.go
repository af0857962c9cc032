// Package locality decides whether an applicant counts as local for the
// configured target country and, for non-locals, which required documents are
// still missing.
package locality

import (
	"strings"

	"kyc-gateway/internal/domain"
)

// defaultAliases maps a target country to the nationality spellings that
// count as a match. Comparison is uppercase.
var defaultAliases = map[string][]string{
	"SINGAPORE": {"SINGAPORE", "SINGAPOREAN", "SINGAPORE CITIZEN", "SG"},
	"MALAYSIA":  {"MALAYSIA", "MALAYSIAN", "MY"},
	"INDIA":     {"INDIA", "INDIAN", "IN"},
}

// requiredForNonLocal is the document set demanded of non-local applicants,
// in the order missing types are reported.
var requiredForNonLocal = []domain.DocumentType{
	domain.DocumentPassport,
	domain.DocumentVisa,
	domain.DocumentLivePhoto,
}

// Assessment is the outcome of one locality check.
type Assessment struct {
	Local               bool
	DetectedNationality string
}

// Gate compares extracted nationality against one target country.
type Gate struct {
	target  string
	aliases map[string]struct{}
}

// NewGate builds a gate for target. Unknown targets match only their own
// exact spelling.
func NewGate(target string) *Gate {
	upper := strings.ToUpper(strings.TrimSpace(target))
	aliases := map[string]struct{}{upper: {}}
	for _, alias := range defaultAliases[upper] {
		aliases[alias] = struct{}{}
	}
	return &Gate{target: upper, aliases: aliases}
}

// Target returns the configured country.
func (g *Gate) Target() string {
	return g.target
}

// Check classifies the record's nationality. A missing nationality counts as
// non-local: without evidence of locality the stricter document set applies.
func (g *Gate) Check(record domain.Record) Assessment {
	nationality := strings.ToUpper(strings.TrimSpace(record.Get("nationality")))
	_, ok := g.aliases[nationality]
	return Assessment{Local: ok, DetectedNationality: nationality}
}

// MissingDocuments reports which required types a non-local applicant has not
// yet supplied, scanning both the current batch and previously stored types.
// Types are normalized so "work_permit" satisfies visa and "selfie" satisfies
// live_photo. Order is stable.
func (g *Gate) MissingDocuments(batchTypes, storedTypes []domain.DocumentType) []domain.DocumentType {
	present := make(map[domain.DocumentType]struct{}, len(batchTypes)+len(storedTypes))
	for _, t := range batchTypes {
		present[domain.NormalizeDocumentType(string(t))] = struct{}{}
	}
	for _, t := range storedTypes {
		present[domain.NormalizeDocumentType(string(t))] = struct{}{}
	}

	var missing []domain.DocumentType
	for _, required := range requiredForNonLocal {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}
