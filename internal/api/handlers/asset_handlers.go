package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/services/assets"
	"github.com/folio-service/folio_service/pkg/logger"
)

// AssetHandler handles asset and notification-rule endpoints
type AssetHandler struct {
	assets *assets.Service
	logger *logger.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetSvc *assets.Service, log *logger.Logger) *AssetHandler {
	return &AssetHandler{assets: assetSvc, logger: log}
}

type createAssetRequest struct {
	AccountID        string                 `json:"account_id" binding:"required,uuid"`
	Type             entities.AssetType     `json:"type" binding:"required,assettype"`
	Symbol           *string                `json:"symbol"`
	Quantity         decimal.Decimal        `json:"quantity"`
	BuyPrice         decimal.Decimal        `json:"buy_price"`
	Location         *string                `json:"location"`
	Area             *decimal.Decimal       `json:"area"`
	PropertyType     *entities.PropertyType `json:"property_type"`
	CurrentValuation *decimal.Decimal       `json:"current_valuation"`
	RentalIncome     *decimal.Decimal       `json:"rental_income"`
	Notes            *string                `json:"notes"`
}

// Create adds a new asset position
func (h *AssetHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	accountID, err := parseUUIDField(req.AccountID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid account_id", nil)
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), uid, accountID, &assets.CreateInput{
		Type:             req.Type,
		Symbol:           req.Symbol,
		Quantity:         req.Quantity,
		BuyPrice:         req.BuyPrice,
		Location:         req.Location,
		Area:             req.Area,
		PropertyType:     req.PropertyType,
		CurrentValuation: req.CurrentValuation,
		RentalIncome:     req.RentalIncome,
		Notes:            req.Notes,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

type updateAssetRequest struct {
	Symbol           *string                `json:"symbol"`
	Quantity         *decimal.Decimal       `json:"quantity"`
	BuyPrice         *decimal.Decimal       `json:"buy_price"`
	Location         *string                `json:"location"`
	Area             *decimal.Decimal       `json:"area"`
	PropertyType     *entities.PropertyType `json:"property_type"`
	CurrentValuation *decimal.Decimal       `json:"current_valuation"`
	RentalIncome     *decimal.Decimal       `json:"rental_income"`
	Notes            *string                `json:"notes"`
}

// Update applies a partial update to an asset
func (h *AssetHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	asset, err := h.assets.Update(c.Request.Context(), uid, assetID, &assets.UpdateInput{
		Symbol:           req.Symbol,
		Quantity:         req.Quantity,
		BuyPrice:         req.BuyPrice,
		Location:         req.Location,
		Area:             req.Area,
		PropertyType:     req.PropertyType,
		CurrentValuation: req.CurrentValuation,
		RentalIncome:     req.RentalIncome,
		Notes:            req.Notes,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// Get returns one asset
func (h *AssetHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	asset, err := h.assets.Get(c.Request.Context(), uid, assetID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// ListByAccount lists the assets in one account
func (h *AssetHandler) ListByAccount(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	list, err := h.assets.ListByAccount(c.Request.Context(), uid, accountID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": list})
}

// Delete removes an asset
func (h *AssetHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.assets.Delete(c.Request.Context(), uid, assetID); err != nil {
		respondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createRuleRequest struct {
	Direction        entities.NotificationDirection `json:"direction" binding:"required,direction"`
	ThresholdPercent int                            `json:"threshold_percent" binding:"required,min=1,max=100"`
}

// CreateRule adds a threshold notification rule to an asset
func (h *AssetHandler) CreateRule(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	rule, err := h.assets.CreateRule(c.Request.Context(), uid, assetID, req.Direction, req.ThresholdPercent)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListRules lists the notification rules on an asset
func (h *AssetHandler) ListRules(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rules, err := h.assets.ListRules(c.Request.Context(), uid, assetID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// DeleteRule removes a notification rule
func (h *AssetHandler) DeleteRule(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ruleID, ok := pathUUID(c, "ruleId")
	if !ok {
		return
	}

	if err := h.assets.DeleteRule(c.Request.Context(), uid, ruleID); err != nil {
		respondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PriceHistory lists recorded price samples for an asset
func (h *AssetHandler) PriceHistory(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	points, err := h.assets.PriceHistory(c.Request.Context(), uid, assetID, limit)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": points})
}
