package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdo/reminder-dispatch/internal/infra/gateway"
)

type capabilityResponse struct {
	Supported  bool   `json:"supported"`
	Permission string `json:"permission"`
}

// CapabilityHandler reports whether the configured delivery channel can
// reach the user, mirroring the Notification API's permission states.
type CapabilityHandler struct {
	sender gateway.Sender
}

func NewCapabilityHandler(sender gateway.Sender) *CapabilityHandler {
	return &CapabilityHandler{
		sender: sender,
	}
}

func (h *CapabilityHandler) HandleCapability(c *gin.Context) {
	ctx := c.Request.Context()

	permission, err := h.sender.Permission(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query delivery permission",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "gateway_error", "failed to query delivery permission")
		return
	}

	c.JSON(http.StatusOK, capabilityResponse{
		Supported:  permission != gateway.PermissionUnsupported,
		Permission: string(permission),
	})
}
