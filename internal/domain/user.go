package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KYCStatus is the user-level verification state, mirrored from the latest
// application decision by the stage tracker.
type KYCStatus string

const (
	KYCPending      KYCStatus = "pending"
	KYCInProgress   KYCStatus = "in_progress"
	KYCApproved     KYCStatus = "approved"
	KYCRejected     KYCStatus = "rejected"
	KYCManualReview KYCStatus = "manual_review"
)

// User is the applicant whose identity is being verified.
type User struct {
	ID        string
	Email     string
	Phone     string
	AutoID    int
	MemberID  string
	KYCStatus KYCStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a pending user with a member ID derived from autoID.
func NewUser(email, phone string, autoID int, now time.Time) User {
	return User{
		ID:        uuid.NewString(),
		Email:     email,
		Phone:     phone,
		AutoID:    autoID,
		MemberID:  MemberID(autoID, now),
		KYCStatus: KYCPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MemberID formats the display identifier, e.g. INS2026001.
func MemberID(autoID int, now time.Time) string {
	return fmt.Sprintf("INS%d%03d", now.Year(), autoID)
}
