package handlers

import (
	"github.com/fadhlanhapp/groupcart-backend/realtime"
	"github.com/fadhlanhapp/groupcart-backend/services"
)

// API bundles the service and realtime dependencies of all handlers
type API struct {
	groupService    *services.GroupService
	purchaseService *services.PurchaseService
	engine          *services.SettlementService
	exportService   *services.ExportService
	registry        *realtime.Registry
}

// NewAPI creates the handler set
func NewAPI(groupService *services.GroupService, purchaseService *services.PurchaseService, engine *services.SettlementService, exportService *services.ExportService, registry *realtime.Registry) *API {
	return &API{
		groupService:    groupService,
		purchaseService: purchaseService,
		engine:          engine,
		exportService:   exportService,
		registry:        registry,
	}
}
