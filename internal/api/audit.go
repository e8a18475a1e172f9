package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bigidrise/mealguard/internal/middleware"
	"github.com/bigidrise/mealguard/internal/service"
)

// AuditHandler is the read side of the audit log. Users can only see
// their own rows.
type AuditHandler struct {
	audit     *service.AuditService
	validator service.TokenValidator
}

func NewAuditHandler(audit *service.AuditService, validator service.TokenValidator) *AuditHandler {
	return &AuditHandler{audit: audit, validator: validator}
}

// RegisterRoutes registers the audit routes
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/audit")
	group.Use(middleware.AuthMiddleware(h.validator))
	{
		group.GET("", h.List)
	}
}

// List returns the caller's audit rows, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.audit.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
