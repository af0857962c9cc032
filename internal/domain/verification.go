package domain

// VerificationStatus classifies the outcome of a government record lookup.
type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "verified"
	VerificationNotFound VerificationStatus = "not_found"
	VerificationInvalid  VerificationStatus = "invalid"
	VerificationFlagged  VerificationStatus = "flagged"
	VerificationMismatch VerificationStatus = "mismatch"
	VerificationExpired  VerificationStatus = "expired"
	VerificationRevoked  VerificationStatus = "revoked"
)

// VerificationResult is the classified outcome of one government lookup.
// Produced once per lookup; never retried automatically.
type VerificationResult struct {
	Verified bool
	Status   VerificationStatus
	Message  string
	Details  map[string]any
}
