package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/groupcart-backend/handlers"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, api *handlers.API) {
	v1 := router.Group("/api/v1")
	{
		// Group endpoints
		v1.POST("/groups/create", api.CreateGroup)
		v1.POST("/groups/getByCode", api.GetGroupByCode)
		v1.POST("/groups/join", api.JoinGroup)
		v1.POST("/groups/export", api.ExportGroup)

		// Purchase endpoints
		v1.POST("/purchases/record", api.RecordPurchase)
		v1.POST("/purchases/list", api.ListPurchases)
		v1.POST("/purchases/remove", api.RemovePurchase)
		v1.POST("/purchases/replaceSplit", api.ReplaceSplit)

		// Settlement endpoints
		v1.POST("/settlements/compute", api.ComputeSettlements)
		v1.POST("/settlements/list", api.ListSettlements)
		v1.POST("/settlements/markCompleted", api.MarkSettlementCompleted)
	}

	// Realtime subscription endpoint
	router.GET("/ws/:code", api.Subscribe)
}
