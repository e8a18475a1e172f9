package api

import (
	"github.com/gin-gonic/gin"

	"github.com/bigidrise/mealguard/internal/service"
)

// Deps carries the already-constructed services the API surface wires
// handlers around.
type Deps struct {
	Gate      *service.GateService
	Overrides *service.OverrideService
	Audit     *service.AuditService
	Tokens    service.TokenValidator
	// RateLimit, when set, bounds the generate endpoint.
	RateLimit gin.HandlerFunc
}

func SetupAPI(router *gin.Engine, deps Deps) {
	v1 := router.Group("/api/v1")
	{
		safetyHandler := NewSafetyHandler(deps.Gate, deps.Tokens)
		safetyHandler.rateLimit = deps.RateLimit
		overrideHandler := NewOverrideHandler(deps.Overrides, deps.Tokens)
		auditHandler := NewAuditHandler(deps.Audit, deps.Tokens)

		safetyHandler.RegisterRoutes(v1)
		overrideHandler.RegisterRoutes(v1)
		auditHandler.RegisterRoutes(v1)
	}
}
