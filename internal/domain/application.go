package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus tracks the overall lifecycle of one verification attempt.
type ApplicationStatus string

const (
	ApplicationInitiated         ApplicationStatus = "initiated"
	ApplicationDocumentsUploaded ApplicationStatus = "documents_uploaded"
	ApplicationProcessing        ApplicationStatus = "processing"
	ApplicationCompleted         ApplicationStatus = "completed"
	ApplicationFailed            ApplicationStatus = "failed"
)

// Terminal reports whether the application accepts no further uploads or
// processing runs.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationCompleted || s == ApplicationFailed
}

// Decision is the final outcome of a verification attempt.
type Decision string

const (
	DecisionApproved     Decision = "approved"
	DecisionRejected     Decision = "rejected"
	DecisionManualReview Decision = "manual_review"
)

// Application is one KYC verification attempt. A user may hold several over
// time but at most one non-terminal application is processed at once.
type Application struct {
	ID             string
	UserID         string
	Status         ApplicationStatus
	CurrentStage   string
	Decision       Decision
	DecisionReason string

	// Extracted is the merged identity record built across documents.
	Extracted Record

	// Per-type snapshots keep the most recent raw extraction for one document
	// type. They are retained unmerged so the fraud engine can compare
	// passport and visa fields that the merged record would have overwritten.
	PassportData Record
	VisaData     Record
	IDCardData   Record

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewApplication creates an initiated application for the given user.
func NewApplication(userID string, now time.Time) Application {
	return Application{
		ID:           uuid.NewString(),
		UserID:       userID,
		Status:       ApplicationInitiated,
		CurrentStage: "initiated",
		Extracted:    Record{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Snapshot returns the per-type snapshot for t, or nil when the type keeps no
// snapshot (live photos never contribute identity fields).
func (a *Application) Snapshot(t DocumentType) Record {
	switch t {
	case DocumentPassport:
		return a.PassportData
	case DocumentVisa:
		return a.VisaData
	case DocumentIDCard:
		return a.IDCardData
	default:
		return nil
	}
}

// SetSnapshot overwrites the per-type snapshot for t with fields.
func (a *Application) SetSnapshot(t DocumentType, fields Record) {
	switch t {
	case DocumentPassport:
		a.PassportData = fields
	case DocumentVisa:
		a.VisaData = fields
	case DocumentIDCard:
		a.IDCardData = fields
	}
}
