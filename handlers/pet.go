package handlers

import (
	"net/http"

	"barkbox/models"
	"barkbox/services/pet"
	"barkbox/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PetHandler serves the /api/pets endpoints.
type PetHandler struct {
	Service pet.PetService
	Logger  *zap.Logger
}

func NewPetHandler(svc pet.PetService, logger *zap.Logger) *PetHandler {
	return &PetHandler{Service: svc, Logger: logger}
}

func (h *PetHandler) CreatePet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req pet.CreatePetRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Pet profile created successfully", p)
}

type listPetsQuery struct {
	Page  int    `form:"page" validate:"omitempty,min=1"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Owner string `form:"owner"`
}

// ListPets returns the caller's pets; admins may pass ?owner=.
func (h *PetHandler) ListPets(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var q listPetsQuery
	if !bindQuery(c, &q) {
		return
	}
	items, page, err := h.Service.List(c.Request.Context(), actor, q.Owner, models.PageRequest{Page: q.Page, Limit: q.Limit})
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Paged(c, http.StatusOK, items, page)
}

func (h *PetHandler) GetPet(c *gin.Context) {
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

func (h *PetHandler) UpdatePet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req pet.UpdatePetRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Pet profile updated successfully", p)
}

func (h *PetHandler) DeletePet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Pet profile deleted successfully", nil)
}
