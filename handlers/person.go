package handlers

import (
	"net/http"

	"barkbox/models"
	"barkbox/middleware"
	"barkbox/services/person"
	"barkbox/utils/apperr"
	"barkbox/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PersonHandler serves account and authentication endpoints.
type PersonHandler struct {
	Service person.PersonService
	Logger  *zap.Logger
}

func NewPersonHandler(svc person.PersonService, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{Service: svc, Logger: logger}
}

// Register handles POST /persons/register.
func (h *PersonHandler) Register(c *gin.Context) {
	var req person.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Registration successful", p)
}

// Login handles POST /persons/login.
func (h *PersonHandler) Login(c *gin.Context) {
	var req person.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Logout handles POST /persons/logout by revoking the caller's token.
func (h *PersonHandler) Logout(c *gin.Context) {
	hash, expiresAt, ok := middleware.TokenFromContext(c)
	if !ok {
		response.Abort(c, apperr.Unauthorized("insufficient authorization"))
		return
	}
	if err := h.Service.Logout(c.Request.Context(), hash, expiresAt); err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Logged out", nil)
}

type listPersonsQuery struct {
	Page  int    `form:"page" validate:"omitempty,min=1"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Role  string `form:"role" validate:"omitempty,oneof=user vendor admin"`
}

// ListPersons handles GET /persons (admin).
func (h *PersonHandler) ListPersons(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var q listPersonsQuery
	if !bindQuery(c, &q) {
		return
	}
	items, page, err := h.Service.List(c.Request.Context(), actor, q.Role, models.PageRequest{Page: q.Page, Limit: q.Limit})
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Paged(c, http.StatusOK, items, page)
}

// GetPerson handles GET /persons/:id.
func (h *PersonHandler) GetPerson(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	p, err := h.Service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// UpdatePerson handles PATCH /persons/:id.
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req person.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Profile updated successfully", p)
}

// DeletePerson handles DELETE /persons/:id.
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Account deleted successfully", nil)
}
