package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/http/middleware"
	"github.com/bluebin-id/bluebin-api/internal/model"
	"github.com/bluebin-id/bluebin-api/internal/service"
)

type tpsRequest struct {
	Name              string   `json:"name" binding:"required"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	Address           string   `json:"address"`
	Status            string   `json:"status"`
	AssignedOfficerID *string  `json:"assigned_officer_id"`
}

func (r tpsRequest) toInput() (service.TPSInput, error) {
	input := service.TPSInput{
		Name:      r.Name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Address:   r.Address,
		Status:    model.TPSStatus(r.Status),
	}
	if r.AssignedOfficerID != nil && *r.AssignedOfficerID != "" {
		officerID, err := uuid.Parse(*r.AssignedOfficerID)
		if err != nil {
			return service.TPSInput{}, err
		}
		input.AssignedOfficerID = &officerID
	}
	return input, nil
}

func (h *Handler) createTPS(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req tpsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_officer_id"})
		return
	}

	tps, err := h.tps.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tps)
}

func (h *Handler) listTPS(c *gin.Context) {
	var status *model.TPSStatus
	if raw := c.Query("status"); raw != "" {
		value := model.TPSStatus(raw)
		status = &value
	}

	points, err := h.tps.List(c.Request.Context(), status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *Handler) getTPS(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tps, err := h.tps.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tps)
}

func (h *Handler) updateTPS(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req tpsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_officer_id"})
		return
	}

	tps, err := h.tps.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tps)
}

type tpsStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateTPSStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req tpsStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tps, err := h.tps.UpdateStatus(c.Request.Context(), principal, id, model.TPSStatus(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tps)
}

func (h *Handler) deleteTPS(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tps.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
