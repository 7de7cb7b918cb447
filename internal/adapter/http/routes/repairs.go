package routes

import (
	"partner_repairs/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathRequests = "/requests"
	PathVehicles = "/vehicles"
)

func addRequestRoutes(rg *gin.RouterGroup, h *handlers.RepairRequestHandler) {
	requests := rg.Group(PathRequests)
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.PUT("/:id/quote", h.SendQuote)
		requests.PATCH("/:id/quote/variant", h.SelectVariant)
		requests.POST("/:id/accept", h.AcceptRequest)
		requests.POST("/:id/cancel", h.CancelRequest)
	}
}

func addVehicleRoutes(rg *gin.RouterGroup, h *handlers.VehicleHandler) {
	vehicles := rg.Group(PathVehicles)
	{
		vehicles.GET("", h.ListActiveVehicles)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.PATCH("/:id/status", h.AdvanceStatus)
		vehicles.DELETE("/:id", h.DeleteVehicle)
		vehicles.GET("/:id/photos", h.ListPhotoSets)
		vehicles.PUT("/:id/photos/:label", h.UploadPhotos)
	}
}
