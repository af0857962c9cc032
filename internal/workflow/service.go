// Package workflow orchestrates the verification pipeline: extraction, the
// document gate, government verification, fraud scoring and the final
// decision, with every transition recorded by the stage tracker.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"kyc-gateway/internal/audit"
	"kyc-gateway/internal/decision"
	"kyc-gateway/internal/domain"
	"kyc-gateway/internal/extraction"
	"kyc-gateway/internal/fraud"
	"kyc-gateway/internal/government"
	"kyc-gateway/internal/locality"
	"kyc-gateway/internal/stage"
	"kyc-gateway/internal/storage"
	"kyc-gateway/internal/workflow/metrics"
	dErrors "kyc-gateway/pkg/domain-errors"
	"kyc-gateway/pkg/platform/sentinel"
	"kyc-gateway/pkg/requestcontext"
)

const tracerName = "kyc-gateway/workflow"

// Service runs the verification workflow. Each application is single-writer:
// at most one extraction or verification run may be in flight per
// application, concurrent attempts are rejected with a conflict.
type Service struct {
	users  storage.UserStore
	apps   storage.ApplicationStore
	docs   storage.DocumentStore
	stages storage.StageStore

	extraction *extraction.Service
	gate       *locality.Gate
	government *government.Service
	fraud      *fraud.Engine
	tracker    *stage.Tracker

	audit   *audit.Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Deps collects the service's collaborators.
type Deps struct {
	Users  storage.UserStore
	Apps   storage.ApplicationStore
	Docs   storage.DocumentStore
	Stages storage.StageStore

	Extraction *extraction.Service
	Gate       *locality.Gate
	Government *government.Service
	Fraud      *fraud.Engine
	Tracker    *stage.Tracker

	Audit   *audit.Publisher
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func NewService(deps Deps) *Service {
	return &Service{
		users:      deps.Users,
		apps:       deps.Apps,
		docs:       deps.Docs,
		stages:     deps.Stages,
		extraction: deps.Extraction,
		gate:       deps.Gate,
		government: deps.Government,
		fraud:      deps.Fraud,
		tracker:    deps.Tracker,
		audit:      deps.Audit,
		metrics:    deps.Metrics,
		tracer:     otel.Tracer(tracerName),
		logger:     deps.Logger,
		inFlight:   make(map[string]struct{}),
	}
}

// acquire marks the application as having a run in flight.
func (s *Service) acquire(applicationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[applicationID]; busy {
		return false
	}
	s.inFlight[applicationID] = struct{}{}
	return true
}

func (s *Service) release(applicationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, applicationID)
}

// RegisterUser creates an applicant with a freshly minted member ID.
func (s *Service) RegisterUser(ctx context.Context, email, phone string) (domain.User, error) {
	if email == "" {
		return domain.User{}, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.User{}, dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return domain.User{}, fmt.Errorf("check existing user: %w", err)
	}

	autoID, err := s.users.NextAutoID(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("allocate member id: %w", err)
	}
	user := domain.NewUser(email, phone, autoID, requestcontext.Now(ctx))
	if err := s.users.Save(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "member_id", user.MemberID)
	return user, nil
}

// Initiate starts (or resumes) a verification attempt for the authenticated
// user. While a non-terminal application exists it is returned as-is; a new
// attempt is only opened once the prior one is terminal.
func (s *Service) Initiate(ctx context.Context) (domain.Application, error) {
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		return domain.Application{}, dErrors.New(dErrors.CodeUnauthorized, "no authenticated user")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Application{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return domain.Application{}, fmt.Errorf("load user: %w", err)
	}

	if existing, err := s.apps.FindActiveByUser(ctx, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return domain.Application{}, fmt.Errorf("check active application: %w", err)
	}

	now := requestcontext.Now(ctx)
	app := domain.NewApplication(userID, now)
	if err := s.apps.Save(ctx, app); err != nil {
		return domain.Application{}, fmt.Errorf("save application: %w", err)
	}

	user.KYCStatus = domain.KYCInProgress
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return domain.Application{}, fmt.Errorf("save user: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			Action:        audit.ActionApplicationInitiated,
			ApplicationID: app.ID,
			UserID:        userID,
			RequestID:     requestcontext.RequestID(ctx),
		})
	}
	s.logger.InfoContext(ctx, "application initiated", "application_id", app.ID, "user_id", userID)
	return app, nil
}

// UploadDocument registers one uploaded file against the application.
// Terminal applications accept no further uploads.
func (s *Service) UploadDocument(ctx context.Context, applicationID, declaredType, filename, fileRef string) (domain.Document, error) {
	app, err := s.loadOwned(ctx, applicationID)
	if err != nil {
		return domain.Document{}, err
	}
	if app.Status.Terminal() {
		return domain.Document{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("application already processed (status: %s, decision: %s)", app.Status, app.Decision))
	}
	if filename == "" {
		return domain.Document{}, dErrors.New(dErrors.CodeBadRequest, "filename is required")
	}

	now := requestcontext.Now(ctx)
	doc := domain.NewDocument(applicationID, domain.NormalizeDocumentType(declaredType), fileRef, filename, now)
	if err := s.docs.Save(ctx, doc); err != nil {
		return domain.Document{}, fmt.Errorf("save document: %w", err)
	}

	app.Status = domain.ApplicationDocumentsUploaded
	app.UpdatedAt = now
	if err := s.apps.Save(ctx, app); err != nil {
		return domain.Document{}, fmt.Errorf("save application: %w", err)
	}

	all, err := s.docs.ListByApplication(ctx, applicationID)
	if err != nil {
		return domain.Document{}, fmt.Errorf("list documents: %w", err)
	}
	if _, err := s.tracker.Update(ctx, applicationID, domain.StageDocumentUploaded, domain.StageCompleted, map[string]any{
		"documents_uploaded": len(all),
	}); err != nil {
		return domain.Document{}, err
	}

	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			Action:        audit.ActionDocumentUploaded,
			ApplicationID: applicationID,
			UserID:        app.UserID,
			RequestID:     requestcontext.RequestID(ctx),
			Detail:        map[string]any{"document_id": doc.ID, "document_type": string(doc.Type)},
		})
	}
	return doc, nil
}

// RunExtraction runs the OCR batch over the application's documents (or the
// named subset), merges results, and applies the document gate. The outcome
// tells the caller whether to collect more documents or move to review.
func (s *Service) RunExtraction(ctx context.Context, applicationID string, documentIDs []string) (OCRStageResult, error) {
	if !s.acquire(applicationID) {
		return OCRStageResult{}, dErrors.New(dErrors.CodeConflict, "a workflow run is already in progress for this application")
	}
	defer s.release(applicationID)

	ctx, span := s.tracer.Start(ctx, "workflow.extract")
	defer span.End()

	result, err := runRecovered(s, ctx, applicationID, func(ctx context.Context) (OCRStageResult, error) {
		return s.runExtraction(ctx, applicationID, documentIDs)
	})
	if err != nil {
		span.RecordError(err)
	}
	return result, err
}

func (s *Service) runExtraction(ctx context.Context, applicationID string, documentIDs []string) (OCRStageResult, error) {
	app, err := s.loadOwned(ctx, applicationID)
	if err != nil {
		return OCRStageResult{}, err
	}
	if app.Status.Terminal() {
		return OCRStageResult{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("application already processed (status: %s, decision: %s)", app.Status, app.Decision))
	}

	all, err := s.docs.ListByApplication(ctx, applicationID)
	if err != nil {
		return OCRStageResult{}, fmt.Errorf("list documents: %w", err)
	}
	if len(all) == 0 {
		return OCRStageResult{}, dErrors.New(dErrors.CodeBadRequest, "no documents uploaded")
	}

	batchDocs := all
	if len(documentIDs) > 0 {
		wanted := make(map[string]struct{}, len(documentIDs))
		for _, id := range documentIDs {
			wanted[id] = struct{}{}
		}
		batchDocs = nil
		for _, doc := range all {
			if _, ok := wanted[doc.ID]; ok {
				batchDocs = append(batchDocs, doc)
			}
		}
		if len(batchDocs) == 0 {
			return OCRStageResult{}, dErrors.New(dErrors.CodeBadRequest, "no documents found with the specified ids")
		}
	}

	start := time.Now()
	if _, err := s.tracker.Update(ctx, applicationID, domain.StageOCRProcessing, domain.StageInProgress, nil); err != nil {
		return OCRStageResult{}, err
	}

	// Reload after the tracker write so the merge below starts from the
	// stored state.
	app, err = s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return OCRStageResult{}, fmt.Errorf("reload application: %w", err)
	}

	batch, err := s.extraction.ProcessBatch(ctx, &app, batchDocs)
	if err != nil {
		return OCRStageResult{}, err
	}
	s.metrics.ObserveStageLatency(string(domain.StageOCRProcessing), time.Since(start))

	if batch.Status == extraction.BatchFailed {
		if _, err := s.tracker.Update(ctx, applicationID, domain.StageOCRProcessing, domain.StageFailed, map[string]any{
			"failed_documents": batch.FailedFilenames,
		}); err != nil {
			return OCRStageResult{}, err
		}
		// The tracker set current_stage to the stage name; leave the
		// OCR-failed marker so status reads show why processing halted.
		app, err = s.apps.FindByID(ctx, applicationID)
		if err != nil {
			return OCRStageResult{}, fmt.Errorf("reload application: %w", err)
		}
		app.CurrentStage = "ocr_failed"
		if err := s.apps.Save(ctx, app); err != nil {
			return OCRStageResult{}, fmt.Errorf("save application: %w", err)
		}
		return OCRStageResult{
			Status:          StatusOCRFailed,
			Message:         "Extraction failed for every document. Please re-upload readable document images.",
			ExtractedData:   batch.Results,
			FailedFilenames: batch.FailedFilenames,
		}, nil
	}

	if err := s.apps.Save(ctx, app); err != nil {
		return OCRStageResult{}, fmt.Errorf("save application: %w", err)
	}

	ocrPayload := map[string]any{
		"documents_processed": len(batch.Results) - len(batch.FailedFilenames),
		"batch_status":        batch.Status,
	}
	if len(batch.FailedFilenames) > 0 {
		ocrPayload["failed_documents"] = batch.FailedFilenames
	}
	if _, err := s.tracker.Update(ctx, applicationID, domain.StageOCRProcessing, domain.StageCompleted, ocrPayload); err != nil {
		return OCRStageResult{}, err
	}

	assessment := s.gate.Check(app.Extracted)

	var batchTypes []domain.DocumentType
	for _, res := range batch.Results {
		if res.Success {
			batchTypes = append(batchTypes, res.Type)
		}
	}
	var storedTypes []domain.DocumentType
	for _, doc := range all {
		storedTypes = append(storedTypes, doc.Type)
	}

	var missing []domain.DocumentType
	if !assessment.Local {
		missing = s.gate.MissingDocuments(batchTypes, storedTypes)
	}

	result := OCRStageResult{
		Success:            true,
		ExtractedData:      batch.Results,
		MergedData:         app.Extracted.Clone(),
		DocumentsProcessed: len(batch.Results),
		FailedFilenames:    batch.FailedFilenames,
		NationalityCheck:   assessment,
	}
	if len(missing) > 0 {
		result.Status = StatusDataExtracted
		result.RequiresAdditionalDocs = true
		result.RequiredDocs = missing
		result.Message = fmt.Sprintf("Additional documents required for non-local applicants: %s", joinTypes(missing))
	} else {
		result.Status = StatusPendingUserReview
		result.Message = "Please review the extracted information and confirm it is correct."
	}

	if _, err := s.tracker.Update(ctx, applicationID, domain.StageDataExtracted, domain.StageCompleted, map[string]any{
		"status":                   result.Status,
		"requires_additional_docs": result.RequiresAdditionalDocs,
		"required_docs":            typesToStrings(missing),
	}); err != nil {
		return OCRStageResult{}, err
	}
	return result, nil
}

// ConfirmAndVerify applies the applicant's corrections and runs the
// verification chain: government lookup, fraud scoring, decision. A failed
// lookup stops the workflow and routes to manual review; the fraud stage is
// never invoked in that case.
func (s *Service) ConfirmAndVerify(ctx context.Context, applicationID string, corrections domain.Record) (VerifyOutcome, error) {
	if !s.acquire(applicationID) {
		return VerifyOutcome{}, dErrors.New(dErrors.CodeConflict, "a workflow run is already in progress for this application")
	}
	defer s.release(applicationID)

	ctx, span := s.tracer.Start(ctx, "workflow.verify")
	defer span.End()

	result, err := runRecovered(s, ctx, applicationID, func(ctx context.Context) (VerifyOutcome, error) {
		return s.confirmAndVerify(ctx, applicationID, corrections)
	})
	if err != nil {
		span.RecordError(err)
	}
	return result, err
}

func (s *Service) confirmAndVerify(ctx context.Context, applicationID string, corrections domain.Record) (VerifyOutcome, error) {
	app, err := s.loadOwned(ctx, applicationID)
	if err != nil {
		return VerifyOutcome{}, err
	}
	if app.Status.Terminal() {
		return VerifyOutcome{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("application already processed (status: %s, decision: %s)", app.Status, app.Decision))
	}
	if len(app.Extracted) == 0 {
		return VerifyOutcome{}, dErrors.New(dErrors.CodeBadRequest, "no extracted data available for verification")
	}

	now := requestcontext.Now(ctx)

	// Corrections are explicit user input and overwrite as given, unlike
	// document merges which skip empty values.
	for key, value := range corrections {
		app.Extracted[key] = value
	}
	app.CurrentStage = "user_confirmed"
	app.Status = domain.ApplicationProcessing
	app.UpdatedAt = now
	if err := s.apps.Save(ctx, app); err != nil {
		return VerifyOutcome{}, fmt.Errorf("save application: %w", err)
	}

	assessment := s.gate.Check(app.Extracted)

	// Government verification.
	govStart := time.Now()
	if _, err := s.tracker.Update(ctx, applicationID, domain.StageGovVerification, domain.StageInProgress, nil); err != nil {
		return VerifyOutcome{}, err
	}
	verification, err := s.government.Verify(ctx, app, assessment.Local)
	if err != nil {
		return VerifyOutcome{}, err
	}
	s.metrics.ObserveStageLatency(string(domain.StageGovVerification), time.Since(govStart))

	if !verification.Verified {
		return s.stopForManualReview(ctx, app, verification)
	}

	if _, err := s.tracker.Update(ctx, applicationID, domain.StageGovVerification, domain.StageCompleted, map[string]any{
		"verified":            true,
		"verification_status": string(verification.Status),
		"message":             verification.Message,
	}); err != nil {
		return VerifyOutcome{}, err
	}

	// Fraud scoring, only ever reached with a verified identity.
	fraudStart := time.Now()
	if _, err := s.tracker.Update(ctx, applicationID, domain.StageFraudCheck, domain.StageInProgress, nil); err != nil {
		return VerifyOutcome{}, err
	}
	fraudResult := s.fraud.Assess(ctx, fraud.Input{
		Record:       app.Extracted,
		GovVerified:  verification.Verified,
		GovStatus:    verification.Status,
		PassportData: app.PassportData,
		VisaData:     app.VisaData,
	})
	s.metrics.ObserveStageLatency(string(domain.StageFraudCheck), time.Since(fraudStart))

	if _, err := s.tracker.Update(ctx, applicationID, domain.StageFraudCheck, domain.StageCompleted, map[string]any{
		"risk_score":       fraudResult.RiskScore,
		"risk_level":       string(fraudResult.RiskLevel),
		"fraud_detected":   fraudResult.FraudDetected,
		"fraud_indicators": fraudResult.Indicators,
		"recommendation":   fraudResult.Recommendation,
	}); err != nil {
		return VerifyOutcome{}, err
	}

	// Final decision.
	if _, err := s.tracker.Update(ctx, applicationID, domain.StageDecisionMade, domain.StageInProgress, nil); err != nil {
		return VerifyOutcome{}, err
	}
	outcome := decision.Decide(verification.Verified, fraudResult)
	if _, err := s.tracker.Update(ctx, applicationID, domain.StageDecisionMade, domain.StageCompleted, map[string]any{
		"decision":        string(outcome.Decision),
		"decision_reason": outcome.Reason,
	}); err != nil {
		return VerifyOutcome{}, err
	}
	s.metrics.IncrementDecision(string(outcome.Decision))

	if outcome.Decision == domain.DecisionApproved {
		return VerifyOutcome{
			Status:   StatusApproved,
			Decision: string(domain.DecisionApproved),
			Message:  "Congratulations! Your identity has been verified. Your account is now fully active.",
			Reason:   outcome.Reason,
		}, nil
	}
	return VerifyOutcome{
		Status:   StatusRejected,
		Decision: string(domain.DecisionRejected),
		Message:  "We were unable to verify your identity. Please contact support for assistance.",
		Reason:   outcome.Reason,
	}, nil
}

// stopForManualReview is the terminal path for a non-verified government
// lookup. The fraud stage is skipped entirely; scoring is only meaningful
// once identity is confirmed against an authority.
func (s *Service) stopForManualReview(ctx context.Context, app domain.Application, verification domain.VerificationResult) (VerifyOutcome, error) {
	if _, err := s.tracker.Update(ctx, app.ID, domain.StageGovVerification, domain.StageFailed, map[string]any{
		"verified":            false,
		"verification_status": string(verification.Status),
		"message":             verification.Message,
		"details":             verification.Details,
	}); err != nil {
		return VerifyOutcome{}, err
	}

	now := requestcontext.Now(ctx)
	app, err := s.apps.FindByID(ctx, app.ID)
	if err != nil {
		return VerifyOutcome{}, fmt.Errorf("reload application: %w", err)
	}
	app.Status = domain.ApplicationFailed
	app.Decision = domain.DecisionManualReview
	app.DecisionReason = fmt.Sprintf("Government database verification failed: %s. Manual KYC review required.", verification.Message)
	app.CurrentStage = "gov_verification_failed"
	app.UpdatedAt = now
	if err := s.apps.Save(ctx, app); err != nil {
		return VerifyOutcome{}, fmt.Errorf("save application: %w", err)
	}

	user, err := s.users.FindByID(ctx, app.UserID)
	if err == nil {
		user.KYCStatus = domain.KYCManualReview
		user.UpdatedAt = now
		if err := s.users.Save(ctx, user); err != nil {
			return VerifyOutcome{}, fmt.Errorf("save user: %w", err)
		}
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return VerifyOutcome{}, fmt.Errorf("load user: %w", err)
	}

	s.metrics.IncrementDecision(string(domain.DecisionManualReview))
	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			Action:        audit.ActionDecisionMade,
			ApplicationID: app.ID,
			UserID:        app.UserID,
			Decision:      string(domain.DecisionManualReview),
			RequestID:     requestcontext.RequestID(ctx),
			Detail:        map[string]any{"reason": app.DecisionReason},
		})
	}
	s.logger.WarnContext(ctx, "government verification failed, workflow stopped",
		"application_id", app.ID,
		"verification_status", verification.Status,
	)

	return VerifyOutcome{
		Status:          StatusManualReviewRequired,
		Message:         "Government database verification failed. Your application requires manual review by our team. You will be contacted within 2-3 business days.",
		Reason:          verification.Message,
		WorkflowStopped: true,
	}, nil
}

// Status assembles the full application view.
func (s *Service) Status(ctx context.Context, applicationID string) (StatusReport, error) {
	app, err := s.loadOwned(ctx, applicationID)
	if err != nil {
		return StatusReport{}, err
	}

	stages, err := s.stages.ListByApplication(ctx, applicationID)
	if err != nil {
		return StatusReport{}, fmt.Errorf("list stages: %w", err)
	}
	docs, err := s.docs.ListByApplication(ctx, applicationID)
	if err != nil {
		return StatusReport{}, fmt.Errorf("list documents: %w", err)
	}

	report := StatusReport{
		ApplicationID:  app.ID,
		Status:         app.Status,
		CurrentStage:   app.CurrentStage,
		Decision:       app.Decision,
		DecisionReason: app.DecisionReason,
		MergedData:     app.Extracted.Clone(),
		Stages:         make([]StageReport, 0, len(stages)),
		Documents:      make([]DocumentReport, 0, len(docs)),
	}
	if user, err := s.users.FindByID(ctx, app.UserID); err == nil {
		report.UserKYCStatus = user.KYCStatus
	}
	for _, stg := range stages {
		row := StageReport{Name: stg.Name, Status: stg.Status, Result: stg.Result}
		if !stg.StartedAt.IsZero() {
			started := stg.StartedAt
			row.StartedAt = &started
		}
		if !stg.CompletedAt.IsZero() {
			completed := stg.CompletedAt
			row.CompletedAt = &completed
		}
		report.Stages = append(report.Stages, row)
	}
	for _, doc := range docs {
		report.Documents = append(report.Documents, DocumentReport{ID: doc.ID, Type: doc.Type, Filename: doc.Filename})
	}
	return report, nil
}

// loadOwned fetches the application and enforces ownership when the context
// carries an authenticated user.
func (s *Service) loadOwned(ctx context.Context, applicationID string) (domain.Application, error) {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Application{}, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return domain.Application{}, fmt.Errorf("load application: %w", err)
	}
	if userID := requestcontext.UserID(ctx); userID != "" && userID != app.UserID {
		// Hide other users' applications rather than confirming they exist.
		return domain.Application{}, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	return app, nil
}

// runRecovered converts panics anywhere in the pipeline into a structured
// failure recorded against the application, never an unhandled crash.
func runRecovered[T any](s *Service, ctx context.Context, applicationID string, fn func(context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.IncrementPanicsRecovered()
			s.logger.ErrorContext(ctx, "workflow panic recovered",
				"application_id", applicationID,
				"panic", r,
			)
			if app, loadErr := s.apps.FindByID(ctx, applicationID); loadErr == nil && !app.Status.Terminal() {
				app.Status = domain.ApplicationFailed
				app.CurrentStage = "workflow_error"
				app.DecisionReason = "Verification workflow failed unexpectedly."
				app.UpdatedAt = requestcontext.Now(ctx)
				if saveErr := s.apps.Save(ctx, app); saveErr != nil {
					s.logger.ErrorContext(ctx, "failed to record workflow failure",
						"application_id", applicationID,
						"error", saveErr,
					)
				}
			}
			err = dErrors.New(dErrors.CodeInternal, "verification workflow failed unexpectedly")
		}
	}()
	return fn(ctx)
}

func joinTypes(types []domain.DocumentType) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += ", "
		}
		out += string(t)
	}
	return out
}

func typesToStrings(types []domain.DocumentType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
