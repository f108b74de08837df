package handler

import (
	"net/http"

	"cargohub/internal/apierror"
	"cargohub/internal/dto"
	"cargohub/internal/model"
	"cargohub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoutesHandler struct{ svc service.RouteService }

func NewRoutesHandler(svc service.RouteService) *RoutesHandler {
	return &RoutesHandler{svc: svc}
}

func (h *RoutesHandler) Create(c *gin.Context) {
	var req dto.CreateRouteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RoutesHandler) List(c *gin.Context) {
	var filter dto.RouteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list routes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RoutesHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RoutesHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateRouteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary Advance a route along its lifecycle
// @Description Moving to in_transit puts the carrier and truck on route;
// @Description moving to done releases them and provisions the invoice.
// @Tags routes
// @Accept json
// @Produce json
// @Param id path string true "Route ID"
// @Param body body dto.UpdateRouteStatusRequest true "Target status"
// @Success 200 {object} dto.RouteResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/routes/{id}/status [patch]
func (h *RoutesHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateRouteStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, model.RouteStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RoutesHandler) AssignCarrier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AssignCarrierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	carrierID, err := uuid.Parse(req.CarrierID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid carrier_id"))
		return
	}
	resp, err := h.svc.AssignCarrier(c.Request.Context(), id, carrierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RoutesHandler) UnassignCarrier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.UnassignCarrier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RoutesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
