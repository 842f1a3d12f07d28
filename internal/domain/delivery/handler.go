package delivery

import (
	"log/slog"
	"net/http"

	"notifier/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the delivery domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new delivery handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /api/v1/send
// Validates and enqueues a delivery, returning 202 Accepted.
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Enqueue(c.Request.Context(), &req)
	if err != nil {
		slog.Error("enqueue delivery failed",
			"error", err,
			"notification", req.Notification,
			"channel", req.Channel,
			"to", req.To,
			"request_id", c.GetString("requestID"),
		)
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusAccepted, resp)
}

// GetDelivery handles GET /api/v1/deliveries/:id
func (h *Handler) GetDelivery(c *gin.Context) {
	d, err := h.service.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, d)
}

// ListDeliveries handles GET /api/v1/deliveries
func (h *Handler) ListDeliveries(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.ListDeliveries(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// RegisterRoutes registers delivery routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send", h.Send)
	rg.GET("/deliveries", h.ListDeliveries)
	rg.GET("/deliveries/:id", h.GetDelivery)
}
