package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDocumentType(t *testing.T) {
	cases := []struct {
		raw  string
		want DocumentType
	}{
		{"id_card", DocumentIDCard},
		{"ID_CARD", DocumentIDCard},
		{"  passport  ", DocumentPassport},
		{"visa", DocumentVisa},
		{"work_permit", DocumentVisa},
		{"workpermit", DocumentVisa},
		{"selfie", DocumentLivePhoto},
		{"live_photo", DocumentLivePhoto},
		{"livephoto", DocumentLivePhoto},
		{"photo", DocumentLivePhoto},
		{"drivers_license", DocumentDriversLicense},
		{"license", DocumentDriversLicense},
		{"", DocumentIDCard},
		{"something_else", DocumentIDCard},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeDocumentType(tc.raw))
		})
	}
}

func TestNumberField(t *testing.T) {
	assert.Equal(t, "id_card_number", DocumentIDCard.NumberField())
	assert.Equal(t, "passport_number", DocumentPassport.NumberField())
	assert.Equal(t, "visa_number", DocumentVisa.NumberField())
	assert.Equal(t, "license_number", DocumentDriversLicense.NumberField())
	assert.Equal(t, "", DocumentLivePhoto.NumberField())
}

func TestIdentityBearing(t *testing.T) {
	assert.False(t, DocumentLivePhoto.IdentityBearing())
	for _, dt := range []DocumentType{DocumentIDCard, DocumentPassport, DocumentVisa, DocumentDriversLicense} {
		assert.True(t, dt.IdentityBearing(), string(dt))
	}
}
