package utils

import (
	"errors"
	"testing"
	"time"

	"barkbox/models"
	"barkbox/utils/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	p := &models.Person{ID: "p-1", Email: "jane@example.com", Role: models.RoleVendor}

	token, exp, err := svc.Issue(p)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "p-1", claims.Subject)
	assert.Equal(t, models.RoleVendor, claims.Role)
	assert.Equal(t, exp.Unix(), claims.Expiry().Unix())
}

func TestTokenServiceRejects(t *testing.T) {
	p := &models.Person{ID: "p-1", Role: models.RoleUser}

	other, _, err := NewTokenService("other-secret", time.Hour).Issue(p)
	require.NoError(t, err)
	_, err = NewTokenService("test-secret", time.Hour).Verify(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenService("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(p)
	require.NoError(t, err)
	_, err = expired.Verify(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = expired.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestPassword(t *testing.T) {
	digest, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", digest)
	assert.True(t, CheckPassword(digest, "correct horse"))
	assert.False(t, CheckPassword(digest, "battery staple"))
}

type slotInput struct {
	Service string `json:"serviceType" validate:"required,service"`
	Time    string `json:"time" validate:"required,hhmm"`
	Status  string `json:"status" validate:"omitempty,bookingstatus"`
	Pet     struct {
		Name string `json:"name" validate:"required,max=5"`
	} `json:"pet"`
}

func TestValidateStruct(t *testing.T) {
	ok := slotInput{Service: "grooming", Time: "9:30"}
	ok.Pet.Name = "Rex"
	require.NoError(t, ValidateStruct(ok))

	bad := slotInput{Service: "boarding", Time: "24:00", Status: "lost"}
	bad.Pet.Name = "Biscuit"
	err := ValidateStruct(bad)
	require.ErrorIs(t, err, apperr.ErrValidation)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	got := map[string]string{}
	for _, f := range appErr.Fields {
		got[f.Field] = f.Message
	}
	assert.Equal(t, map[string]string{
		"serviceType": "must be one of [veterinary grooming training]",
		"time":        "must be a valid time in HH:MM format",
		"status":      "must be one of [pending confirmed completed cancelled]",
		"pet.name":    "must be at most 5 characters",
	}, got)
}
