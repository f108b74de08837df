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

type CarriersHandler struct{ svc service.CarrierService }

func NewCarriersHandler(svc service.CarrierService) *CarriersHandler {
	return &CarriersHandler{svc: svc}
}

func (h *CarriersHandler) Create(c *gin.Context) {
	var req dto.CreateCarrierRequest
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

func (h *CarriersHandler) List(c *gin.Context) {
	var filter dto.CarrierFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list carriers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarriersHandler) Get(c *gin.Context) {
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

func (h *CarriersHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCarrierRequest
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
// @Summary Change carrier status (resting / available only)
// @Tags carriers
// @Accept json
// @Produce json
// @Param id path string true "Carrier ID"
// @Param body body dto.UpdateCarrierStatusRequest true "Target status"
// @Success 200 {object} dto.CarrierResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/carriers/{id}/status [patch]
func (h *CarriersHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCarrierStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, model.CarrierStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AssignTruck godoc
// @Summary Assign a truck to a carrier
// @Tags carriers
// @Accept json
// @Produce json
// @Param id path string true "Carrier ID"
// @Param body body dto.AssignTruckRequest true "Truck to bind"
// @Success 200 {object} dto.CarrierResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/carriers/{id}/truck [post]
func (h *CarriersHandler) AssignTruck(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AssignTruckRequest
	if !bindAndValidate(c, &req) {
		return
	}
	truckID, err := uuid.Parse(req.TruckID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid truck_id"))
		return
	}
	resp, err := h.svc.AssignTruck(c.Request.Context(), id, truckID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarriersHandler) UnassignTruck(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.UnassignTruck(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarriersHandler) Delete(c *gin.Context) {
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
