package handler

import (
	"net/http"

	"cargohub/internal/apierror"
	"cargohub/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Overview returns per-status entity counts for the ops dashboard.
func (h *DashboardHandler) Overview(c *gin.Context) {
	resp, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build dashboard"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
