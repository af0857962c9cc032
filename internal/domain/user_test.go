package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemberIDFormat(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "INS2026001", MemberID(1, now))
	assert.Equal(t, "INS2026042", MemberID(42, now))
	assert.Equal(t, "INS20261000", MemberID(1000, now))
}

func TestNewUserStartsPending(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	user := NewUser("john@example.com", "+6590000001", 7, now)

	assert.Equal(t, KYCPending, user.KYCStatus)
	assert.Equal(t, "INS2026007", user.MemberID)
	assert.NotEmpty(t, user.ID)
}
