package domain

import (
	"time"

	"github.com/google/uuid"
)

// StageName is the fixed ordered vocabulary of pipeline stages.
type StageName string

const (
	StageDocumentUploaded StageName = "document_uploaded"
	StageOCRProcessing    StageName = "ocr_processing"
	StageDataExtracted    StageName = "data_extracted"
	StageGovVerification  StageName = "gov_verification"
	StageFraudCheck       StageName = "fraud_check"
	StageDecisionMade     StageName = "decision_made"
)

// StageOrder lists the stages in pipeline order.
var StageOrder = []StageName{
	StageDocumentUploaded,
	StageOCRProcessing,
	StageDataExtracted,
	StageGovVerification,
	StageFraudCheck,
	StageDecisionMade,
}

// Valid reports whether n is a known stage name.
func (n StageName) Valid() bool {
	for _, name := range StageOrder {
		if n == name {
			return true
		}
	}
	return false
}

// StageStatus is the per-stage progress marker.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
	StageFailed     StageStatus = "failed"
)

// Valid reports whether s is a known stage status.
func (s StageStatus) Valid() bool {
	switch s {
	case StagePending, StageInProgress, StageCompleted, StageFailed:
		return true
	}
	return false
}

// Stage is one named step of the pipeline for one application. Exactly one
// row exists per (application, stage name); re-invocations update in place.
type Stage struct {
	ID            string
	ApplicationID string
	Name          StageName
	Status        StageStatus

	// Result holds the stage's outcome payload (counts, verification detail,
	// fraud assessment, decision). JSON-serializable values only.
	Result map[string]any

	StartedAt   time.Time
	CompletedAt time.Time
	CreatedAt   time.Time
}

// NewStage creates the first row for a (application, stage) pair.
func NewStage(applicationID string, name StageName, status StageStatus, now time.Time) Stage {
	return Stage{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		Name:          name,
		Status:        status,
		CreatedAt:     now,
	}
}
