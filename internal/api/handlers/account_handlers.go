package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-service/folio_service/internal/infrastructure/repositories"
	"github.com/folio-service/folio_service/pkg/logger"
)

// AccountHandler handles account endpoints
type AccountHandler struct {
	accounts *repositories.AccountRepository
	logger   *logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *repositories.AccountRepository, log *logger.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: log}
}

type createAccountRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// Create registers a new account for the caller
func (h *AccountHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), uid, req.Name)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// List returns the caller's accounts
func (h *AccountHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListByUser(c.Request.Context(), uid)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Delete removes one of the caller's accounts and all assets in it
func (h *AccountHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), accountID, uid); err != nil {
		respondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
