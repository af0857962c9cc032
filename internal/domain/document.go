package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentType is the closed set of document classes the pipeline handles.
type DocumentType string

const (
	DocumentIDCard         DocumentType = "id_card"
	DocumentPassport       DocumentType = "passport"
	DocumentVisa           DocumentType = "visa"
	DocumentDriversLicense DocumentType = "drivers_license"
	DocumentLivePhoto      DocumentType = "live_photo"
)

// IdentityBearing reports whether documents of this type contribute fields to
// the merged identity record. Live photos never do.
func (t DocumentType) IdentityBearing() bool {
	return t != DocumentLivePhoto
}

// NumberField names the document-specific ID field for this type. Using
// per-type fields instead of a generic document_number prevents data loss
// when multiple documents merge into one record.
func (t DocumentType) NumberField() string {
	switch t {
	case DocumentIDCard:
		return "id_card_number"
	case DocumentPassport:
		return "passport_number"
	case DocumentVisa:
		return "visa_number"
	case DocumentDriversLicense:
		return "license_number"
	default:
		return ""
	}
}

// typeSynonyms maps substrings seen in raw type strings and filenames to the
// canonical document type. Checked in order; first hit wins.
var typeSynonyms = []struct {
	substr string
	t      DocumentType
}{
	{"work_permit", DocumentVisa},
	{"workpermit", DocumentVisa},
	{"visa", DocumentVisa},
	{"selfie", DocumentLivePhoto},
	{"live_photo", DocumentLivePhoto},
	{"livephoto", DocumentLivePhoto},
	{"passport", DocumentPassport},
	{"drivers_license", DocumentDriversLicense},
	{"license", DocumentDriversLicense},
	{"id_card", DocumentIDCard},
}

// NormalizeDocumentType folds a raw document type string (from uploads, OCR
// output, or stored rows) into the canonical type. Unknown strings default to
// id_card, matching the upload default.
func NormalizeDocumentType(raw string) DocumentType {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return DocumentIDCard
	}
	for _, syn := range typeSynonyms {
		if strings.Contains(lowered, syn.substr) {
			return syn.t
		}
	}
	// A bare "photo" type counts as a live photo; "photo" also appears inside
	// unrelated words so it is matched only as a whole prefix here.
	if strings.HasPrefix(lowered, "photo") {
		return DocumentLivePhoto
	}
	return DocumentIDCard
}

// Document is one uploaded file. Type is mutable: extraction may reclassify
// it when the detected type disagrees with the declared one.
type Document struct {
	ID            string
	ApplicationID string
	Type          DocumentType
	FileRef       string
	Filename      string

	// Fields is the per-document extracted snapshot, set once by extraction.
	Fields Record

	UploadedAt time.Time
}

// NewDocument creates a document record for an upload.
func NewDocument(applicationID string, t DocumentType, fileRef, filename string, now time.Time) Document {
	return Document{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		Type:          t,
		FileRef:       fileRef,
		Filename:      filename,
		UploadedAt:    now,
	}
}
