package handlers

import (
	"barkbox/middleware"
	"barkbox/models"
	"barkbox/utils"
	"barkbox/utils/apperr"
	"barkbox/utils/response"

	"github.com/gin-gonic/gin"
)

// currentActor returns the authenticated actor or writes 401.
func currentActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Abort(c, apperr.Unauthorized("insufficient authorization"))
	}
	return actor, ok
}

// bindJSON decodes the body into dst or writes 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Abort(c, apperr.Validation("invalid request body", apperr.FieldError{Field: "body", Message: err.Error()}))
		return false
	}
	return true
}

// bindQuery decodes and validates the query string into dst or writes 400.
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Abort(c, apperr.Validation("invalid query parameters", apperr.FieldError{Field: "query", Message: err.Error()}))
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		response.Abort(c, err)
		return false
	}
	return true
}
