package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"kyc-gateway/internal/domain"
	"kyc-gateway/internal/extraction/metrics"
	"kyc-gateway/internal/storage"
)

// Batch outcome statuses. Partial success proceeds; the failed filenames are
// surfaced so the caller knows what to re-upload.
const (
	BatchSuccess        = "success"
	BatchPartialSuccess = "partial_success"
	BatchFailed         = "failed"
)

// DocumentResult reports one document's extraction to the caller.
type DocumentResult struct {
	DocumentID string              `json:"document_id"`
	Filename   string              `json:"filename"`
	Type       domain.DocumentType `json:"document_type"`
	Success    bool                `json:"success"`
	Fields     domain.Record       `json:"extracted_fields,omitempty"`
	Err        string              `json:"error,omitempty"`
}

// BatchOutcome aggregates a whole extraction batch.
type BatchOutcome struct {
	Status          string
	Results         []DocumentResult
	FailedFilenames []string
}

// Service runs extraction over a document batch and folds the results into
// the application's identity record.
type Service struct {
	extractor Extractor
	documents storage.DocumentStore
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(extractor Extractor, documents storage.DocumentStore, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		extractor: extractor,
		documents: documents,
		metrics:   m,
		logger:    logger,
	}
}

// docOutcome is the per-goroutine scratch result before the sequential merge.
type docOutcome struct {
	result Result
	// resolvedType is the post-reconciliation document type. Live photos are
	// resolved without calling the extractor at all.
	resolvedType domain.DocumentType
}

// ProcessBatch extracts every document concurrently, waits for the whole
// batch, then merges sequentially in input order. Individual failures never
// abort the batch; they are aggregated into the outcome. The merge step
// mutates app (per-type snapshots and the merged record) and persists
// reclassified documents; the caller is responsible for saving app.
func (s *Service) ProcessBatch(ctx context.Context, app *domain.Application, docs []domain.Document) (BatchOutcome, error) {
	outcomes := make([]docOutcome, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	for i := range docs {
		i := i
		g.Go(func() error {
			outcomes[i] = s.extractOne(gctx, docs[i])
			return nil
		})
	}
	// Closures report failures through outcomes, so Wait only ever returns
	// nil; keeping errgroup preserves the shared-context shape.
	if err := g.Wait(); err != nil {
		return BatchOutcome{}, err
	}

	// Merge is strictly sequential and in input order: later documents win on
	// overlapping non-empty fields.
	batch := BatchOutcome{Results: make([]DocumentResult, 0, len(docs))}
	succeeded := 0
	for i, doc := range docs {
		out := outcomes[i]
		docResult := DocumentResult{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Type:       out.resolvedType,
			Success:    out.result.Success,
			Fields:     out.result.Fields,
			Err:        out.result.Err,
		}

		if !out.result.Success {
			s.metrics.IncrementDocument("failed")
			s.logger.WarnContext(ctx, "document extraction failed",
				"application_id", app.ID,
				"document_id", doc.ID,
				"filename", doc.Filename,
				"error", out.result.Err,
			)
			batch.FailedFilenames = append(batch.FailedFilenames, doc.Filename)
			batch.Results = append(batch.Results, docResult)
			continue
		}
		succeeded++
		s.metrics.IncrementDocument("success")

		doc.Type = out.resolvedType
		doc.Fields = out.result.Fields
		if err := s.documents.Save(ctx, doc); err != nil {
			return BatchOutcome{}, fmt.Errorf("persist extracted document: %w", err)
		}

		// Live photos record their liveness payload on the document only;
		// they contribute nothing to snapshots or the merged record.
		if out.resolvedType != domain.DocumentLivePhoto {
			app.SetSnapshot(out.resolvedType, out.result.Fields)
			app.Extracted.Merge(out.result.Fields)
		}
		batch.Results = append(batch.Results, docResult)
	}

	switch {
	case len(docs) == 0 || succeeded == 0:
		batch.Status = BatchFailed
	case succeeded < len(docs):
		batch.Status = BatchPartialSuccess
	default:
		batch.Status = BatchSuccess
	}
	s.metrics.IncrementBatch(batch.Status)
	return batch, nil
}

func (s *Service) extractOne(ctx context.Context, doc domain.Document) docOutcome {
	start := time.Now()

	if isLivePhoto(doc) {
		s.metrics.ObserveExtractLatency(string(domain.DocumentLivePhoto), time.Since(start))
		return docOutcome{
			result:       Result{Success: true, Fields: LivenessPayload()},
			resolvedType: domain.DocumentLivePhoto,
		}
	}

	result := s.extractor.Extract(ctx, Request{
		FileRef:  doc.FileRef,
		Filename: doc.Filename,
		TypeHint: doc.Type,
	})
	if !result.Success {
		s.metrics.ObserveExtractLatency(string(doc.Type), time.Since(start))
		return docOutcome{result: result, resolvedType: doc.Type}
	}

	detected := domain.NormalizeDocumentType(result.Fields.Get("document_type"))
	resolved := reconcileType(doc.Filename, detected)
	if resolved != detected {
		// Detection called it an id_card but the filename says otherwise.
		// Carry the extracted number over to the type-specific field.
		if number := result.Fields.Get(domain.DocumentIDCard.NumberField()); number != "" {
			result.Fields[resolved.NumberField()] = number
			delete(result.Fields, domain.DocumentIDCard.NumberField())
		}
		s.logger.InfoContext(ctx, "document type overridden by filename",
			"document_id", doc.ID,
			"filename", doc.Filename,
			"detected", detected,
			"resolved", resolved,
		)
	}
	result.Fields["document_type"] = string(resolved)

	s.metrics.ObserveExtractLatency(string(resolved), time.Since(start))
	return docOutcome{result: result, resolvedType: resolved}
}

// isLivePhoto routes selfies away from field extraction. A filename starting
// with "photo" counts unless it is a passport photo page.
func isLivePhoto(doc domain.Document) bool {
	if doc.Type == domain.DocumentLivePhoto {
		return true
	}
	name := strings.ToLower(doc.Filename)
	if containsAny(name, "selfie", "live_photo", "livephoto") {
		return true
	}
	return strings.HasPrefix(name, "photo") && !strings.Contains(name, "passport")
}

// reconcileType overrides a detected id_card when the filename strongly
// signals passport or visa. Filenames beat detection for these two types;
// everything else trusts the extractor.
func reconcileType(filename string, detected domain.DocumentType) domain.DocumentType {
	if detected != domain.DocumentIDCard {
		return detected
	}
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "passport"):
		return domain.DocumentPassport
	case containsAny(name, "visa", "work_permit", "workpermit"):
		return domain.DocumentVisa
	default:
		return detected
	}
}
