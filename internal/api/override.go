package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bigidrise/mealguard/internal/middleware"
	"github.com/bigidrise/mealguard/internal/service"
)

// OverrideHandler exposes PIN management and override token issuance.
// Tokens are consumed by the generate endpoint, never directly here.
type OverrideHandler struct {
	overrides *service.OverrideService
	validator service.TokenValidator
}

func NewOverrideHandler(overrides *service.OverrideService, validator service.TokenValidator) *OverrideHandler {
	return &OverrideHandler{overrides: overrides, validator: validator}
}

// RegisterRoutes registers the override routes
func (h *OverrideHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/override")
	group.Use(middleware.AuthMiddleware(h.validator))
	{
		group.POST("/request", h.Request)
		group.PUT("/pin", h.SetPin)
	}
}

// Request verifies the PIN and issues a single-use override token.
func (h *OverrideHandler) Request(c *gin.Context) {
	var req struct {
		Pin             string `json:"pin" binding:"required"`
		Allergen        string `json:"allergen" binding:"required"`
		MealRequestText string `json:"meal_request_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	token, err := h.overrides.RequestOverride(c.Request.Context(), userID, req.Pin, req.Allergen, req.MealRequestText)
	if err != nil {
		var rateLimited *service.RateLimitedError
		switch {
		case errors.As(err, &rateLimited):
			c.Header("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimited.Error()})
		case errors.Is(err, service.ErrNoPinConfigured):
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no override PIN configured"})
		case errors.Is(err, service.ErrPinIncorrect):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect PIN"})
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "safety profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "override request failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
	})
}

// SetPin sets or changes the override PIN.
func (h *OverrideHandler) SetPin(c *gin.Context) {
	var req struct {
		CurrentPin string `json:"current_pin"`
		NewPin     string `json:"new_pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.overrides.SetPin(c.Request.Context(), userID, req.CurrentPin, req.NewPin); err != nil {
		switch {
		case errors.Is(err, service.ErrPinIncorrect):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect current PIN"})
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "safety profile not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN updated"})
}
