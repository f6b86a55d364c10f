package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes gin's binding validator report fields by their json,
// uri or form name
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "uri", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// HandleBindingError answers 400 for a request that could not be bound.
// Validator failures carry per-field details; malformed bodies do not.
func HandleBindingError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed",
			requestID,
			pipeline.FieldErrors(validationErrors),
		))
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRequestTooLarge,
			"Request body exceeds maximum allowed size",
			requestID,
		))
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeBadRequest,
		"Malformed request: "+err.Error(),
		requestID,
	))
}
