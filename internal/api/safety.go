package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bigidrise/mealguard/internal/middleware"
	"github.com/bigidrise/mealguard/internal/safety"
	"github.com/bigidrise/mealguard/internal/service"
)

// SafetyHandler exposes the gate over HTTP: pre-generation assessment,
// post-generation validation, gated generation, and the user's expanded
// term bank.
type SafetyHandler struct {
	gate      *service.GateService
	validator service.TokenValidator
	rateLimit gin.HandlerFunc
}

func NewSafetyHandler(gate *service.GateService, validator service.TokenValidator) *SafetyHandler {
	return &SafetyHandler{gate: gate, validator: validator}
}

// RegisterRoutes registers the safety routes
func (h *SafetyHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/safety")
	group.Use(middleware.AuthMiddleware(h.validator))
	{
		group.POST("/assess", h.Assess)
		group.POST("/validate", h.Validate)
		group.GET("/terms", h.Terms)

		// Generation is the only endpoint that spends generator
		// budget, so only it gets rate limited.
		if h.rateLimit != nil {
			group.POST("/generate", h.rateLimit, h.Generate)
		} else {
			group.POST("/generate", h.Generate)
		}
	}
}

// Assess runs the pre-generation check on a meal request.
func (h *SafetyHandler) Assess(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	assessment, err := h.gate.AssessRequest(c.Request.Context(), userID, req.Text)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// Validate re-checks an already generated meal against the profile.
func (h *SafetyHandler) Validate(c *gin.Context) {
	var req struct {
		Meal safety.MealOutput `json:"meal" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	assessment, err := h.gate.ValidateOutput(c.Request.Context(), userID, req.Meal)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// Generate runs the whole gated flow: assess, honor an override token,
// call the generator, validate the output.
func (h *SafetyHandler) Generate(c *gin.Context) {
	var req struct {
		Text            string `json:"text" binding:"required"`
		OverrideToken   string `json:"override_token"`
		AcceptAmbiguous bool   `json:"accept_ambiguous"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	meal, assessment, err := h.gate.GenerateMeal(c.Request.Context(), userID, req.Text, req.OverrideToken, req.AcceptAmbiguous)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"meal": meal, "assessment": assessment})
	case errors.Is(err, service.ErrRequestBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "request blocked", "assessment": assessment})
	case errors.Is(err, service.ErrAmbiguousRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "confirmation required", "assessment": assessment})
	case errors.Is(err, service.ErrUnsafeOutput):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate a safe meal, please adjust the request"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "safety profile not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed"})
	}
}

// Terms returns the user's fully expanded forbidden-term bank.
func (h *SafetyHandler) Terms(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	terms, err := h.gate.BuildForbiddenTerms(c.Request.Context(), userID)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"terms":          terms,
		"tables_version": safety.TablesVersion,
	})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

func writeProfileError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "safety profile not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
