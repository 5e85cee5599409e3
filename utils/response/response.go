// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"barkbox/models"
	"barkbox/utils/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool                `json:"success"`
	Data       interface{}         `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
	Pagination *models.Pagination  `json:"pagination,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{Success: true, Data: data})
}

// SuccessWithMessage adds a human-readable message to a success body.
func SuccessWithMessage(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{Success: true, Data: data, Message: message})
}

// Paged writes a page of items with its pagination metadata.
func Paged(c *gin.Context, statusCode int, data interface{}, p models.Pagination) {
	c.JSON(statusCode, Envelope{Success: true, Data: data, Pagination: &p})
}

// Error maps err to its status and writes a failure body. Internal causes are
// logged and never sent to the client.
func Error(c *gin.Context, logger *zap.Logger, err error) {
	status, body := failure(err)
	if status >= 500 {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, body)
}

// Abort is Error for middleware: it stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := failure(err)
	c.AbortWithStatusJSON(status, body)
}

func failure(err error) (int, Envelope) {
	e := apperr.From(err)
	return e.HTTPStatus(), Envelope{Success: false, Message: e.Message, Errors: e.Fields}
}
