package extraction

import (
	"context"

	"kyc-gateway/internal/domain"
)

// Request identifies one document to extract. Filename travels alongside the
// file reference because classification treats it as a signal of its own.
type Request struct {
	FileRef  string
	Filename string
	TypeHint domain.DocumentType
}

// Result is the outcome of extracting one document. Extraction failures are
// reported here, never as Go errors: a failed document must not abort the
// rest of its batch.
type Result struct {
	Success bool
	Fields  domain.Record
	Err     string
}

// Extractor reads identity fields out of a document image. The production
// implementation fronts a vision OCR service; MockExtractor serves tests and
// local development.
type Extractor interface {
	Extract(ctx context.Context, req Request) Result
}
