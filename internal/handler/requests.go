package handler

import (
	"net/http"

	"cargohub/internal/apierror"
	"cargohub/internal/dto"
	"cargohub/internal/model"
	"cargohub/internal/service"

	"github.com/gin-gonic/gin"
)

type RequestsHandler struct{ svc service.RequestService }

func NewRequestsHandler(svc service.RequestService) *RequestsHandler {
	return &RequestsHandler{svc: svc}
}

// Create godoc
// @Summary Submit a transport request
// @Description Creates the request and provisions its linked route in one call.
// @Tags requests
// @Accept json
// @Produce json
// @Param body body dto.CreateTransportRequest true "Request details"
// @Success 201 {object} dto.TransportRequestResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/requests [post]
func (h *RequestsHandler) Create(c *gin.Context) {
	var req dto.CreateTransportRequest
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

func (h *RequestsHandler) List(c *gin.Context) {
	var filter dto.RequestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list requests"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RequestsHandler) Get(c *gin.Context) {
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

func (h *RequestsHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateRequestStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, model.RequestStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
