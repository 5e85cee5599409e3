package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"barkbox/models"
	"barkbox/utils/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validation("validation failed", apperr.FieldError{Field: "service", Message: "is required"}), http.StatusBadRequest},
		{apperr.NotFound("booking not found"), http.StatusNotFound},
		{apperr.Conflict("slot taken"), http.StatusConflict},
		{apperr.Forbidden("nope"), http.StatusForbidden},
		{apperr.InvalidState("confirmed"), http.StatusBadRequest},
		{errors.New("mongo exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Error(c, zap.NewNop(), tc.err)
		assert.Equal(t, tc.status, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, zap.NewNop(), errors.New("connection refused 10.0.0.3"))
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestValidationErrorsListFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Abort(c, apperr.Validation("validation failed", apperr.FieldError{Field: "appointmentTime", Message: "must be HH:MM"}))

	body := decode(t, w)
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "appointmentTime", errs[0].(map[string]interface{})["field"])
	assert.True(t, c.IsAborted())
}

func TestPaged(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Paged(c, http.StatusOK, []string{"a"}, models.NewPagination(25, models.PageRequest{Page: 2, Limit: 10}))

	body := decode(t, w)
	p := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(25), p["total"])
	assert.Equal(t, float64(3), p["pages"])
	assert.Equal(t, float64(2), p["currentPage"])
}
