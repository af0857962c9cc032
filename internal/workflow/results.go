package workflow

import (
	"time"

	"kyc-gateway/internal/domain"
	"kyc-gateway/internal/extraction"
	"kyc-gateway/internal/locality"
)

// Workflow result statuses surfaced to callers.
const (
	StatusDataExtracted        = "data_extracted"
	StatusPendingUserReview    = "pending_user_review"
	StatusOCRFailed            = "failed"
	StatusManualReviewRequired = "manual_review_required"
	StatusApproved             = "approved"
	StatusRejected             = "rejected"
)

// OCRStageResult reports one extraction run. data_extracted means the
// document gate still wants more input; pending_user_review means the record
// is ready for the applicant to confirm.
type OCRStageResult struct {
	Success            bool                         `json:"success"`
	Status             string                       `json:"status"`
	Message            string                       `json:"message,omitempty"`
	ExtractedData      []extraction.DocumentResult  `json:"extracted_data"`
	MergedData         domain.Record                `json:"merged_data"`
	DocumentsProcessed int                          `json:"documents_processed"`
	FailedFilenames    []string                     `json:"failed_filenames,omitempty"`
	NationalityCheck   locality.Assessment          `json:"nationality_check"`

	RequiresAdditionalDocs bool                  `json:"requires_additional_docs,omitempty"`
	RequiredDocs           []domain.DocumentType `json:"required_docs,omitempty"`
}

// VerifyOutcome is the terminal result of the verification run: either a
// decision, or a stop at government verification.
type VerifyOutcome struct {
	Status          string `json:"status"`
	Decision        string `json:"decision,omitempty"`
	Message         string `json:"message"`
	Reason          string `json:"reason,omitempty"`
	WorkflowStopped bool   `json:"workflow_stopped,omitempty"`
}

// StageReport is one stage row in a status report.
type StageReport struct {
	Name        domain.StageName   `json:"name"`
	Status      domain.StageStatus `json:"status"`
	Result      map[string]any     `json:"result,omitempty"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// DocumentReport is one document row in a status report.
type DocumentReport struct {
	ID       string              `json:"id"`
	Type     domain.DocumentType `json:"document_type"`
	Filename string              `json:"filename"`
}

// StatusReport is the full application view returned by Status.
type StatusReport struct {
	ApplicationID  string                   `json:"application_id"`
	Status         domain.ApplicationStatus `json:"status"`
	CurrentStage   string                   `json:"current_stage"`
	Decision       domain.Decision          `json:"decision,omitempty"`
	DecisionReason string                   `json:"decision_reason,omitempty"`
	MergedData     domain.Record            `json:"merged_data,omitempty"`
	UserKYCStatus  domain.KYCStatus         `json:"user_kyc_status,omitempty"`
	Stages         []StageReport            `json:"stages"`
	Documents      []DocumentReport         `json:"documents"`
}
