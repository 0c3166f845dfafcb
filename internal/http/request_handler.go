package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/http/middleware"
	"github.com/bluebin-id/bluebin-api/internal/model"
	"github.com/bluebin-id/bluebin-api/internal/repository"
	"github.com/bluebin-id/bluebin-api/internal/service"
)

type createRequestRequest struct {
	TPSID string `json:"tps_id" binding:"required"`
	Note  string `json:"note"`
}

func (h *Handler) createRequest(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpsID, err := uuid.Parse(req.TPSID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tps_id"})
		return
	}

	request, err := h.requests.Create(c.Request.Context(), service.CreateRequestInput{
		TPSID:     tpsID,
		Note:      req.Note,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *Handler) listRequests(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter repository.RequestFilter
	if raw := c.Query("status"); raw != "" {
		status := model.RequestStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("tps_id"); raw != "" {
		tpsID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tps_id"})
			return
		}
		filter.TPSID = &tpsID
	}

	requests, err := h.requests.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) closeRequest(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requests.Close(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
