package tasks

import (
	"testing"

	"barkbox/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingStatusTask(t *testing.T) {
	b := &models.Booking{ID: "b-1", Status: models.StatusConfirmed}

	task, opts, err := NewBookingStatusTask(b)
	require.NoError(t, err)
	assert.Equal(t, TypeBookingStatusEmail, task.Type())
	assert.Len(t, opts, 3)

	p, err := ParseBookingEmailPayload(task)
	require.NoError(t, err)
	assert.Equal(t, BookingEmailPayload{BookingID: "b-1", Status: models.StatusConfirmed}, p)
}

func TestParseBookingEmailPayloadRejectsGarbage(t *testing.T) {
	_, err := ParseBookingEmailPayload(asynq.NewTask(TypeBookingCreatedEmail, []byte("{")))
	assert.Error(t, err)

	_, err = ParseBookingEmailPayload(asynq.NewTask(TypeBookingCreatedEmail, []byte(`{"status":"pending"}`)))
	assert.ErrorContains(t, err, "missing bookingId")
}
