package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/folio-service/folio_service/internal/api/middleware"
	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

// userID extracts the authenticated user or writes a 401
func userID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
	}
	return id, ok
}

// pathUUID parses a UUID path parameter or writes a 400
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDField parses a UUID carried in a request body field
func parseUUIDField(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

// respondError writes a standardized error payload
func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, entities.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// respondAppError maps a service error to its HTTP representation
func respondAppError(c *gin.Context, err error) {
	var appErr *apperrors.FolioError
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode, entities.ErrorResponse{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}

// respondBadRequest writes a 400 with binding details
func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
}
