package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"barkbox/services/listing"
	"barkbox/utils/apperr"
	"barkbox/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageBytes = 5 << 20

// ListingHandler serves the /api/listings endpoints.
type ListingHandler struct {
	Service listing.ListingService
	Logger  *zap.Logger
}

func NewListingHandler(svc listing.ListingService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{Service: svc, Logger: logger}
}

// ListListings handles the public GET /listings.
func (h *ListingHandler) ListListings(c *gin.Context) {
	var q listing.ListListingsQuery
	if !bindQuery(c, &q) {
		return
	}
	items, page, err := h.Service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Paged(c, http.StatusOK, items, page)
}

// GetListing handles the public GET /listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	l, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// CreateListing accepts JSON, or multipart form fields with an optional "image" file.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req listing.CreateListingRequest
	if !bindListingBody(c, &req) {
		return
	}
	image, ok := openImage(c)
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}
	l, err := h.Service.Create(c.Request.Context(), actor, req, readerOrNil(image))
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Dog listing created successfully", l)
}

// UpdateListing handles PATCH /listings/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req listing.UpdateListingRequest
	if !bindListingBody(c, &req) {
		return
	}
	image, ok := openImage(c)
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}
	l, err := h.Service.Update(c.Request.Context(), actor, c.Param("id"), req, readerOrNil(image))
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Dog listing updated successfully", l)
}

// DeleteListing handles DELETE /listings/:id.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Dog listing deleted successfully", nil)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func bindListingBody(c *gin.Context, dst interface{}) bool {
	if !isMultipart(c) {
		return bindJSON(c, dst)
	}
	if err := c.ShouldBind(dst); err != nil {
		response.Abort(c, apperr.Validation("invalid form data", apperr.FieldError{Field: "body", Message: err.Error()}))
		return false
	}
	return true
}

// openImage returns the uploaded "image" part, or nil when none was sent.
func openImage(c *gin.Context) (io.ReadCloser, bool) {
	if !isMultipart(c) {
		return nil, true
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		response.Abort(c, apperr.Validation("invalid image upload", apperr.FieldError{Field: "image", Message: err.Error()}))
		return nil, false
	}
	if fh.Size > maxImageBytes {
		response.Abort(c, apperr.Validation("invalid image upload", apperr.FieldError{Field: "image", Message: "must be at most 5MB"}))
		return nil, false
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		response.Abort(c, apperr.Validation("invalid image upload", apperr.FieldError{Field: "image", Message: "must be an image"}))
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.Abort(c, apperr.Validation("invalid image upload", apperr.FieldError{Field: "image", Message: err.Error()}))
		return nil, false
	}
	return f, true
}

// readerOrNil keeps a nil ReadCloser from becoming a non-nil io.Reader.
func readerOrNil(rc io.ReadCloser) io.Reader {
	if rc == nil {
		return nil
	}
	return rc
}
